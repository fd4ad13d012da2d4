package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	keyServer  = "server"
	keyListing = "listing"
	keyOutput  = "output"
	keyLogging = "logging"
	keyCache   = "cache"
)

// ShallowMergeYAML applies the top-level sections present in overlayPath onto
// target. A present section replaces the whole target section; absent sections
// and unknown keys leave target unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err := mergeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// mergeSection decodes node into a default section, so fields the overlay omits
// take built-in defaults rather than the values being replaced.
func mergeSection(target *Config, key string, node *yaml.Node) error {
	defaults := Default()
	switch key {
	case keyServer:
		v := defaults.Server
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	case keyListing:
		v := defaults.Listing
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Listing = v
	case keyOutput:
		v := defaults.Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		v := defaults.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyCache:
		v := defaults.Cache
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	}
	return nil
}
