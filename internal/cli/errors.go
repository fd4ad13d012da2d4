package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/vaultctl/internal/session"
	"github.com/rshade/vaultctl/internal/vault"
)

// Process exit codes.
const (
	ExitCodeError        = 1
	ExitCodeUsage        = 2
	ExitCodeUnauthorized = 3
	ExitCodeNotFound     = 4
)

// ExitError carries the process exit code for a failed command. main extracts
// it with errors.As.
type ExitError struct {
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyError maps authentication and not-found failures to their exit codes.
// Other errors pass through unchanged and exit with ExitCodeError.
func classifyError(err error) error {
	var exitErr *ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return err
	case errors.Is(err, vault.ErrUnauthorized), errors.Is(err, session.ErrNoSession):
		return &ExitError{
			ExitCode: ExitCodeUnauthorized,
			Err:      fmt.Errorf("%w (run 'vaultctl login')", err),
		}
	case errors.Is(err, vault.ErrNotFound):
		return &ExitError{ExitCode: ExitCodeNotFound, Err: err}
	default:
		return err
	}
}

// withExitCodes wraps a RunE so its error carries an exit code.
func withExitCodes(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return classifyError(fn(cmd, args))
	}
}

// usageError marks err as a usage mistake.
func usageError(err error) error {
	return &ExitError{ExitCode: ExitCodeUsage, Err: err}
}
