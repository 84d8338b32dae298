package google

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth tokens for Gmail API calls. The abstraction
// allows different token sources (file-based, in-memory for tests).
type TokenProvider interface {
	// GetTokenForAccount retrieves a valid OAuth token for the account,
	// refreshing it against the OAuth endpoint when expired.
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the account.
	HasTokenForAccount(account string) bool

	// InvalidateToken discards the stored token for the account.
	InvalidateToken(account string) error
}

// DefaultTokenProvider is the provider used by the package-level helpers.
var DefaultTokenProvider TokenProvider = FileTokenProvider{}

// FileTokenProvider stores tokens in per-account files under the user cache
// directory, as "access refresh" pairs. It carries the explicit credential
// lifecycle: Acquire exchanges an authorization code, GetTokenForAccount
// refreshes on use, InvalidateToken revokes the local cache.
type FileTokenProvider struct{}

// Acquire exchanges an authorization code for tokens and stores them for
// the account.
func (p FileTokenProvider) Acquire(ctx context.Context, account, authCode string) error {
	conf := getOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	file := tokenFile(account)
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// GetTokenForAccount reads the stored token and refreshes it through the
// OAuth endpoint. Returns an error if no valid token exists.
func (p FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	slurp, err := os.ReadFile(tokenFile(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}

	// Expiry in the past forces a refresh, which also validates the token.
	ts := getOAuthConfig().TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	t, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}
	return t, nil
}

// HasTokenForAccount checks if a token file exists for the account.
func (p FileTokenProvider) HasTokenForAccount(account string) bool {
	_, err := os.ReadFile(tokenFile(account))
	return err == nil
}

// InvalidateToken removes the token file for the account. Removing a token
// that does not exist is not an error.
func (p FileTokenProvider) InvalidateToken(account string) error {
	err := os.Remove(tokenFile(account))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
