package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmailkit/gmailkit/internal/google"
	"github.com/gmailkit/gmailkit/internal/instrumentation"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
		reset   bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate a Google account",
		Long: `Run the OAuth2 flow for an account. Without --code the command prints
the authorization URL to visit; run it again with --code to exchange the
code for a token. Tokens are cached per account under the user cache
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if reset {
				if err := google.InvalidateToken(account); err != nil {
					return err
				}
				fmt.Printf("Token removed for account %q\n", account)
				return nil
			}

			if code != "" {
				provider, perr := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig(version))
				if perr != nil {
					return fmt.Errorf("failed to initialize instrumentation: %w", perr)
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = provider.Shutdown(shutdownCtx)
				}()

				err := google.SaveTokenForAccount(ctx, account, code)
				if err != nil {
					provider.Metrics().RecordOAuthAuth(ctx, "failure")
					return fmt.Errorf("failed to exchange authorization code: %w", err)
				}
				provider.Metrics().RecordOAuthAuth(ctx, "success")
				fmt.Printf("Token saved for account %q\n", account)
				return nil
			}

			if google.HasTokenForAccount(account) {
				fmt.Printf("Account %q is already authenticated\n", account)
				return nil
			}

			url := google.GetAuthURL()
			fmt.Printf("Visit the following URL to authorize gmailkit:\n\n  %s\n\nThen run: gmailkit auth --account %s --code <code>\n", url, account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code to exchange for a token")
	cmd.Flags().BoolVar(&reset, "reset", false, "Remove the cached token for the account")
	cmd.MarkFlagsMutuallyExclusive("code", "reset")
	return cmd
}
