package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/vaultctl/internal/logging"
)

// Project overlay discovery.
const (
	ProjectDirName = ".vaultctl"
	EnvProjectDir  = "VAULTCTL_PROJECT_DIR"
)

// ResolveProjectDir finds the project-local .vaultctl directory. It checks, in
// order, flagValue, $VAULTCTL_PROJECT_DIR, then walks up from startDir looking
// for an existing .vaultctl directory that is not the user config directory.
// It returns an absolute path or "" and never creates anything.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}
	if startDir == "" {
		return ""
	}

	userDir, _ := GetConfigDir()
	dir := toAbsProjectDir(ctx, startDir)
	for {
		if dir != userDir {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				return dir
			}
		}
		parent := filepath.Dir(filepath.Dir(dir))
		if parent == filepath.Dir(dir) {
			return ""
		}
		dir = filepath.Join(parent, ProjectDirName)
	}
}

// NewWithProjectDir returns New() with projectDir/config.yaml shallow-merged on
// top, then the environment re-applied so it keeps precedence over files.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()
	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := *cfg
	if err := ShallowMergeYAML(&merged, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using user config")
		return cfg
	}
	merged.ApplyEnv()
	return &merged
}

func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}
	if filepath.Base(abs) == ProjectDirName {
		return abs
	}
	return filepath.Join(abs, ProjectDirName)
}
