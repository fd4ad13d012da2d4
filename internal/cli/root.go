package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/vaultctl/internal/cli/pagination"
	"github.com/rshade/vaultctl/internal/config"
	"github.com/rshade/vaultctl/internal/logging"
)

// Global flag names.
const (
	flagDebug      = "debug"
	flagBaseURL    = "base-url"
	flagPageSize   = "page-size"
	flagNoCache    = "no-cache"
	flagProjectDir = "project-dir"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the vaultctl CLI.
// It loads configuration, wires up logging and tracing, and registers the
// login, files, overview, config and cache subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "vaultctl",
		Short:         "Document vault command-line client",
		Long:          "vaultctl: browse, search, upload and share documents stored in your vault",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool(flagDebug, false, "enable debug logging")
	cmd.PersistentFlags().String(flagBaseURL, "", "vault server URL (overrides config file and VAULTCTL_BASE_URL)")
	cmd.PersistentFlags().Int(flagPageSize, 0,
		fmt.Sprintf("records per page, 1-%d (0 = use config default)", pagination.MaxPageSize))
	cmd.PersistentFlags().Bool(flagNoCache, false, "bypass the page cache")
	cmd.PersistentFlags().String(flagProjectDir, "", "project directory holding a .vaultctl/config.yaml overlay")

	cmd.AddCommand(
		newLoginCmd(), newLogoutCmd(), newFilesCmd(),
		newOverviewCmd(), newConfigCmd(), newCacheCmd(),
	)

	return cmd
}

// loadConfig builds the effective configuration (files, environment, then
// global flags) and installs it as the global config.
func loadConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	flagDir, _ := cmd.Flags().GetString(flagProjectDir)
	cwd, _ := os.Getwd()
	cfg := config.NewWithProjectDir(ctx, config.ResolveProjectDir(ctx, flagDir, cwd))

	if cmd.Flags().Changed(flagBaseURL) {
		cfg.Server.BaseURL, _ = cmd.Flags().GetString(flagBaseURL)
	}
	if cmd.Flags().Changed(flagPageSize) {
		size, _ := cmd.Flags().GetInt(flagPageSize)
		if size < pagination.MinPageSize || size > pagination.MaxPageSize {
			return &ExitError{
				ExitCode: ExitCodeUsage,
				Err:      fmt.Errorf("%w: got %d", pagination.ErrInvalidPageSize, size),
			}
		}
		cfg.Listing.PageSize = size
	}
	if noCache, _ := cmd.Flags().GetBool(flagNoCache); noCache {
		cfg.Cache.Enabled = false
	}

	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Sign in (password, then the one-time code sent to you)
  vaultctl login --username alice

  # List your files, six per page
  vaultctl files list

  # Jump to page 3 of the files shared with you, sensitive ones only
  vaultctl files received --page 3 --filter sensitive

  # Search files you shared with others
  vaultctl files shared --search passport --output json

  # Browse all three collections interactively
  vaultctl files browse

  # Upload two scans under a custom category
  vaultctl files upload front.jpg back.jpg --category other --custom-category "visa"

  # Share a file and mark it sensitive
  vaultctl files share 42 --to bob --sensitive=true

  # File counts across all collections
  vaultctl overview`

// newFilesCmd creates the files command group.
func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"file", "f"},
		Short:   "List, browse and manage vault files",
	}
	for _, spec := range listCommandSpecs() {
		cmd.AddCommand(newFilesListCmd(spec))
	}
	cmd.AddCommand(
		newFilesBrowseCmd(),
		newFilesUploadCmd(),
		newFilesDownloadCmd(),
		newFilesDeleteCmd(),
		newFilesShareCmd(),
	)
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigValidateCmd())
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Page cache commands"}
	cmd.AddCommand(newCacheClearCmd(), newCacheStatsCmd())
	return cmd
}
