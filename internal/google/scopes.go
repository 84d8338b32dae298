package google

// DefaultOAuthScopes are the Google OAuth scopes required for gmailkit.
//
// The scopes provide access to:
//   - Gmail: read, modify, send (gmail.modify covers all three)
//   - Gmail settings: read the account signature for outgoing mail
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.settings.basic",
}
