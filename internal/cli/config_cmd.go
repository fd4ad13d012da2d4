package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/vaultctl/internal/config"
)

var errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// newConfigInitCmd creates the config init command.
// With --project it writes ./.vaultctl/config.yaml and a .gitignore, otherwise
// the user config in ~/.vaultctl/config.yaml.
func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a configuration file with default values.

With --project the file is created in .vaultctl/ under the current directory,
together with a .gitignore that keeps cached pages out of version control.`,
		Example: `  # Create ~/.vaultctl/config.yaml
  vaultctl config init

  # Create a project overlay in the current directory
  vaultctl config init --project

  # Overwrite an existing file
  vaultctl config init --force`,
		Args: cobra.NoArgs,
		RunE: withExitCodes(func(cmd *cobra.Command, _ []string) error {
			var (
				dir string
				err error
			)
			if project {
				cwd, cwdErr := os.Getwd()
				if cwdErr != nil {
					return cwdErr
				}
				dir = filepath.Join(cwd, config.ProjectDirName)
				if err = os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create project config directory: %w", err)
				}
			} else if dir, err = config.EnsureConfigDir(); err != nil {
				return err
			}

			path := filepath.Join(dir, "config.yaml")
			if !force {
				if _, statErr := os.Stat(path); statErr == nil {
					return usageError(errConfigExists)
				} else if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", path, statErr)
				}
			}

			cfg := config.Default()
			cfg.SetPath(path)
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", path)

			if project {
				created, gitErr := config.EnsureGitignore(dir)
				if gitErr != nil {
					return fmt.Errorf("failed to create .gitignore: %w", gitErr)
				}
				if created {
					fmt.Fprintln(cmd.OutOrStdout(), "Created .gitignore to keep cached data out of version control")
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create a project overlay in ./.vaultctl")

	return cmd
}

// newConfigShowCmd prints the effective configuration.
func newConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration after defaults, config files, environment
variables and global flags have been applied.`,
		Example: `  vaultctl config show
  vaultctl --base-url https://vault.example.com config show --output json`,
		Args: cobra.NoArgs,
		RunE: withExitCodes(func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			switch output {
			case "", "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2) //nolint:mnd // YAML indent.
				if err := enc.Encode(cfg); err != nil {
					return err
				}
				return enc.Close()
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), cfg)
			default:
				return usageError(fmt.Errorf("unsupported output format %q (valid: yaml, json)", output))
			}
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml, json")

	return cmd
}

// newConfigValidateCmd checks the effective configuration.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Example: `  vaultctl config validate
  VAULTCTL_PAGE_SIZE=500 vaultctl config validate`,
		Args: cobra.NoArgs,
		RunE: withExitCodes(func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return usageError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration is valid")
			if path := cfg.Path(); path != "" {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Config file: %s\n", path)
				}
			}
			return nil
		}),
	}
}
