// Package google provides OAuth2 authentication for the Gmail API.
//
// Tokens are cached per account under the user cache directory
// (~/.cache/gmailkit/<account>.token on Linux) and refreshed automatically
// through the oauth2 token source. Client credentials are supplied via the
// GMAILKIT_CLIENT_ID and GMAILKIT_CLIENT_SECRET environment variables.
//
// The credential lifecycle is explicit: SaveTokenForAccount acquires,
// GetTokenSourceForAccount refreshes on use, InvalidateToken revokes the
// local cache. No package-level mutable session state exists beyond the
// token files themselves.
package google
