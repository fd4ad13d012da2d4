package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/vaultctl/internal/cli/pagination"
	"github.com/rshade/vaultctl/internal/config"
	"github.com/rshade/vaultctl/internal/listing"
	"github.com/rshade/vaultctl/internal/tui"
	"github.com/rshade/vaultctl/internal/vault"
)

// Output formats.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

// listCommandSpec describes one of the per-collection list commands.
type listCommandSpec struct {
	use        string
	aliases    []string
	short      string
	collection vault.Collection
}

func listCommandSpecs() []listCommandSpec {
	return []listCommandSpec{
		{use: "list", aliases: []string{"ls", "own"}, short: "List your own files", collection: vault.CollectionOwn},
		{use: "received", aliases: []string{"to-me"}, short: "List files shared with you", collection: vault.CollectionReceived},
		{use: "shared", aliases: []string{"by-me"}, short: "List files you shared with others", collection: vault.CollectionShared},
	}
}

// listOutput is the JSON document written by --output json.
type listOutput struct {
	Pagination pagination.Meta `json:"pagination"`
	Files      []vault.File    `json:"files"`
}

// newFilesListCmd creates a list command for one collection.
func newFilesListCmd(spec listCommandSpec) *cobra.Command {
	var (
		params pagination.Params
		output string
	)

	cmd := &cobra.Command{
		Use:     spec.use,
		Aliases: spec.aliases,
		Short:   spec.short,
		Long: spec.short + `.

Pages are 1-based. --search queries the server; --filter narrows the rows of
the fetched page by their sensitivity flag, so a filtered page can show fewer
rows than the page size.`,
		Example: fmt.Sprintf(`  vaultctl files %[1]s
  vaultctl files %[1]s --page 2
  vaultctl files %[1]s --search invoice --filter sensitive
  vaultctl files %[1]s --sort name:desc --output json`, spec.use),
		Args: cobra.NoArgs,
		RunE: withExitCodes(func(cmd *cobra.Command, _ []string) error {
			return runFilesList(cmd, spec.collection, params, output)
		}),
	}

	cmd.Flags().IntVar(&params.Page, "page", pagination.DefaultPage, "page number to show (1-based)")
	cmd.Flags().StringVarP(&params.Search, "search", "s", "", "server-side keyword search")
	cmd.Flags().StringVar(&params.Filter, "filter", "", "sensitivity filter: all, sensitive, insensitive")
	cmd.Flags().StringVar(&params.Sort, "sort", "",
		"sort rows of the page: field[:asc|desc] ("+strings.Join(pagination.NewFileSorter().ValidFields(), ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, ndjson (default from config)")

	return cmd
}

func runFilesList(cmd *cobra.Command, collection vault.Collection, params pagination.Params, output string) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	if err := params.Validate(); err != nil {
		return usageError(err)
	}
	format, err := resolveOutputFormat(output, cfg)
	if err != nil {
		return err
	}

	client, err := authenticatedClient(ctx)
	if err != nil {
		return err
	}
	pc, err := newPageCache(cfg)
	if err != nil {
		return err
	}
	eng, err := newFileEngine(client, collection, cfg, pc)
	if err != nil {
		return err
	}

	if err := loadPage(ctx, eng, params); err != nil {
		return err
	}
	eng.SetFilter(params.FilterMode(cfg.FilterMode()))

	snap := eng.Snapshot()
	field, order, _ := pagination.ParseSort(params.Sort)
	files, err := pagination.NewFileSorter().Sort(snap.Visible, field, order)
	if err != nil {
		return usageError(err)
	}
	if files == nil {
		files = []vault.File{}
	}

	logger.Debug().Ctx(ctx).
		Str("collection", collection.String()).
		Int("page", snap.Query.CurrentPage+1).
		Int("total_pages", snap.Metadata.TotalPages).
		Int("visible", len(files)).
		Msg("listing rendered")

	meta := pagination.NewMeta(collection.String(), snap)
	switch format {
	case outputJSON:
		return writeJSON(cmd.OutOrStdout(), listOutput{Pagination: meta, Files: files})
	case outputNDJSON:
		return writeNDJSON(cmd.OutOrStdout(), files)
	default:
		styled := tui.DetectOutputMode(false, false, false) != tui.OutputModePlain
		return renderFileTable(cmd.OutOrStdout(), collection, files, snap, styled)
	}
}

// loadPage runs the engine to the requested page: a first page (browse or
// search), then the jump when a later page was asked for.
func loadPage(ctx context.Context, eng *listing.Engine[vault.File], params pagination.Params) error {
	var err error
	if strings.TrimSpace(params.Search) != "" {
		err = eng.Search(ctx, params.Search)
	} else {
		err = eng.LoadFirstPage(ctx)
	}
	if err != nil {
		return err
	}

	idx := params.PageIndex()
	if idx == 0 {
		return nil
	}
	if err := eng.GoToPage(ctx, idx); err != nil {
		if errors.Is(err, listing.ErrInvalidPageRequest) {
			total := eng.Metadata().TotalPages
			if total == 0 {
				return usageError(fmt.Errorf("page %d does not exist: no files", params.Page))
			}
			return usageError(fmt.Errorf("page %d does not exist: valid pages are 1-%d", params.Page, total))
		}
		return err
	}
	return nil
}

// resolveOutputFormat picks the --output value or the configured default.
func resolveOutputFormat(flagValue string, cfg *config.Config) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	if !slices.Contains(config.OutputFormats(), format) {
		return "", usageError(fmt.Errorf("unsupported output format %q (valid: %s)",
			format, strings.Join(config.OutputFormats(), ", ")))
	}
	return format, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}
