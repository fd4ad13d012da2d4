package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/vaultctl/internal/vault"
)

// parseFileID parses a positional file id.
func parseFileID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError(fmt.Errorf("invalid file id %q: must be a positive integer", arg))
	}
	return id, nil
}

// newFilesUploadCmd creates the upload command.
func newFilesUploadCmd() *cobra.Command {
	var req vault.UploadRequest

	cmd := &cobra.Command{
		Use:   "upload PATH...",
		Short: "Upload files to your vault",
		Long: `Uploads one or more files in a single request. All files share the
description and category. Category "other" requires --custom-category.

Categories: ` + strings.Join(vault.Categories(), ", "),
		Example: `  vaultctl files upload pan.pdf --category pan
  vaultctl files upload a.jpg b.jpg --category other --custom-category visa --description "2024 trip"`,
		Args: cobra.MinimumNArgs(1),
		RunE: withExitCodes(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			for _, path := range args {
				f, err := vault.StatUploadFile(path)
				if err != nil {
					return usageError(err)
				}
				req.Files = append(req.Files, f)
			}
			before := len(req.Files)
			req.Files = vault.DedupeFiles(req.Files)
			if skipped := before - len(req.Files); skipped > 0 {
				cmd.PrintErrf("Skipping %d duplicate file(s)\n", skipped)
			}
			if !vault.IsKnownCategory(req.Category) && strings.TrimSpace(req.Category) != "" {
				logger.Warn().Ctx(ctx).Str("category", req.Category).Msg("uploading with a category outside the known list")
			}
			if err := req.Validate(); err != nil {
				return usageError(err)
			}

			client, err := authenticatedClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Upload(ctx, req); err != nil {
				return err
			}
			invalidateCache(ctx)

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d file(s) as %q: %s\n",
				len(req.Files), req.SentCategory(), strings.Join(req.FileNames(), ", "))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&req.Category, "category", "c", "", "document category (required)")
	cmd.Flags().StringVar(&req.CustomCategory, "custom-category", "", "category name when --category is \"other\"")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "description stored with every file")

	return cmd
}

// newFilesDownloadCmd creates the download command.
func newFilesDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Download a file",
		Example: `  vaultctl files download 42 -o pan.pdf
  vaultctl files download 42 > pan.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: withExitCodes(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}
			client, err := authenticatedClient(ctx)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = client.Download(ctx, id, cmd.OutOrStdout())
				return err
			}

			n, err := downloadToFile(cmd, client, id, output)
			if err != nil {
				return err
			}
			cmd.PrintErrln(printer.Sprintf("Saved %d bytes to %s", n, output))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default: stdout)")

	return cmd
}

// downloadToFile writes to a temp file next to path and renames it into place.
// The temp file is removed on failure.
func downloadToFile(cmd *cobra.Command, client *vault.Client, id int64, path string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	n, err := client.Download(cmd.Context(), id, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		cleanup()
		return 0, fmt.Errorf("saving %s: %w", path, err)
	}
	return n, nil
}

// newFilesDeleteCmd creates the delete command.
func newFilesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete one of your files",
		Example: `  vaultctl files delete 42
  vaultctl files delete 42 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: withExitCodes(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !isTerminal(os.Stdin) {
					return usageError(errors.New("refusing to delete without confirmation; pass --yes"))
				}
				ok, promptErr := newPrompter(cmd).confirm(fmt.Sprintf("Delete file %d?", id))
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			client, err := authenticatedClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Delete(ctx, id); err != nil {
				return err
			}
			invalidateCache(ctx)

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted file %d\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// newFilesShareCmd creates the share command.
func newFilesShareCmd() *cobra.Command {
	var (
		recipient string
		sensitive bool
	)

	cmd := &cobra.Command{
		Use:   "share ID",
		Short: "Share a file with another user",
		Long: `Shares one of your files with another user. --sensitive must be given
explicitly; the recipient sees the flag and can filter on it.`,
		Example: `  vaultctl files share 42 --to bob --sensitive=true
  vaultctl files share 42 --to carol --sensitive=false`,
		Args: cobra.ExactArgs(1),
		RunE: withExitCodes(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseFileID(args[0])
			if err != nil {
				return err
			}

			req := vault.ShareRequest{FileID: id, RecipientUsername: recipient}
			if cmd.Flags().Changed("sensitive") {
				req.IsSensitive = &sensitive
			}
			if err := req.Validate(); err != nil {
				return usageError(err)
			}

			client, err := authenticatedClient(ctx)
			if err != nil {
				return err
			}
			resp, err := client.Share(ctx, req)
			if err != nil {
				return err
			}
			invalidateCache(ctx)

			msg := resp.Message
			if msg == "" {
				msg = fmt.Sprintf("Shared file %d with %s", id, strings.TrimSpace(recipient))
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}),
	}

	cmd.Flags().StringVar(&recipient, "to", "", "recipient username (required)")
	cmd.Flags().BoolVar(&sensitive, "sensitive", false, "mark the shared file as sensitive (required)")

	return cmd
}
