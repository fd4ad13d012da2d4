package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/vaultctl/internal/session"
	"github.com/rshade/vaultctl/internal/vault"
)

const maxCodeAttempts = 3

// clientAuthenticator adapts *vault.Client to session.Authenticator.
type clientAuthenticator struct {
	client *vault.Client
}

func (a clientAuthenticator) SignIn(ctx context.Context, username, password string) error {
	_, err := a.client.SignIn(ctx, username, password)
	return err
}

func (a clientAuthenticator) VerifyOTP(ctx context.Context, username, otp string) error {
	_, err := a.client.VerifyOTP(ctx, username, otp)
	return err
}

// newLoginCmd creates the login command.
func newLoginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the vault",
		Long: `Signs in with your password, then with the one-time code the vault
sends you. The session cookie is saved to ~/.vaultctl/session.yaml (mode 0600)
and reused by later commands until you run 'vaultctl logout'.`,
		Example: `  vaultctl login
  vaultctl login --username alice
  vaultctl --base-url https://vault.example.com login -u alice`,
		Args: cobra.NoArgs,
		RunE: withExitCodes(func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, username)
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")

	return cmd
}

func runLogin(cmd *cobra.Command, username string) error {
	ctx := cmd.Context()

	client, err := newClient()
	if err != nil {
		return err
	}
	store, err := sessionStore()
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	if username == "" {
		if username, err = p.line("Username: "); err != nil {
			return err
		}
	}
	password, err := p.secret("Password: ")
	if err != nil {
		return err
	}

	flow := session.NewFlow(clientAuthenticator{client: client})
	if err := flow.SubmitPassword(ctx, username, password); err != nil {
		if errors.Is(err, session.ErrPasswordRequired) {
			return usageError(err)
		}
		if errors.Is(err, vault.ErrUnauthorized) {
			return &ExitError{ExitCode: ExitCodeUnauthorized, Err: fmt.Errorf("sign in failed: %w", err)}
		}
		return err
	}
	logger.Info().Ctx(ctx).Str("username", flow.Username()).Msg("password accepted, awaiting code")
	fmt.Fprintln(cmd.ErrOrStderr(), "A one-time code has been sent to you.")

	if err := submitCode(cmd, p, flow); err != nil {
		return err
	}

	state := session.State{
		Username:    flow.Username(),
		BaseURL:     client.BaseURL(),
		OTPVerified: true,
		Cookies:     session.FromHTTPCookies(client.Cookies()),
		SavedAt:     time.Now().UTC(),
	}
	if err := store.Save(state); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	invalidateCache(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", flow.Username())
	return nil
}

// submitCode prompts for the one-time code. Blank codes and codes the backend
// rejects with a 4xx are retried.
func submitCode(cmd *cobra.Command, p *prompter, flow *session.Flow) error {
	var (
		lastErr error
		apiErr  *vault.APIError
	)
	for range maxCodeAttempts {
		code, err := p.line("One-time code: ")
		if err != nil {
			return err
		}

		lastErr = flow.SubmitCode(cmd.Context(), code)
		switch {
		case lastErr == nil:
			return nil
		case errors.Is(lastErr, session.ErrCodeRequired):
			fmt.Fprintln(cmd.ErrOrStderr(), lastErr)
		case errors.As(lastErr, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
			fmt.Fprintln(cmd.ErrOrStderr(), "Invalid code, try again.")
		default:
			return lastErr
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", maxCodeAttempts, lastErr)
}

// newLogoutCmd creates the logout command.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: withExitCodes(func(cmd *cobra.Command, _ []string) error {
			store, err := sessionStore()
			if err != nil {
				return err
			}
			state, loadErr := store.Load()
			if err := store.Clear(); err != nil {
				return err
			}
			invalidateCache(cmd.Context())

			if loadErr != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", state.Username)
			return nil
		}),
	}
}
