package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/vaultctl/internal/config"
	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/tui"
	"github.com/rshade/vaultctl/internal/vault"
)

// errNotInteractive is returned by browse when stdin or stdout is not a terminal.
var errNotInteractive = errors.New("browse needs an interactive terminal; use 'vaultctl files list' instead")

// newFilesBrowseCmd creates the interactive browser command.
func newFilesBrowseCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse your files interactively",
		Long: `Opens an interactive browser over your own, received and shared files.

Keys: tab switches collection, n/p move between pages, 1-9 jump to a page,
g then a number and enter goes to any page, / searches, f cycles the
sensitivity filter, r refreshes, enter shows details and q quits.`,
		Example: `  vaultctl files browse
  vaultctl files browse --view received`,
		Args: cobra.NoArgs,
		RunE: withExitCodes(func(cmd *cobra.Command, _ []string) error {
			start, err := vault.ParseCollection(view)
			if err != nil {
				return usageError(err)
			}
			if tui.DetectOutputMode(false, false, false) != tui.OutputModeInteractive {
				return usageError(errNotInteractive)
			}
			return runBrowse(cmd, start)
		}),
	}

	cmd.Flags().StringVar(&view, "view", vault.CollectionOwn.String(), "collection to open first: own, received, shared")

	return cmd
}

func runBrowse(cmd *cobra.Command, start vault.Collection) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	client, err := authenticatedClient(ctx)
	if err != nil {
		return err
	}
	// The three engines share one cache.
	pc, err := newPageCache(cfg)
	if err != nil {
		return err
	}

	engines := make(map[vault.Collection]*listing.Engine[vault.File], len(vault.Collections()))
	for _, c := range vault.Collections() {
		eng, engErr := newFileEngine(client, c, cfg, pc)
		if engErr != nil {
			return engErr
		}
		engines[c] = eng
	}

	model, err := tui.NewBrowserModel(ctx, engines, start)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("failed to run interactive browser: %w", err)
	}
	return nil
}
