package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/gmailkit/gmailkit/internal/google"
	"github.com/gmailkit/gmailkit/internal/instrumentation"
	"github.com/gmailkit/gmailkit/internal/logging"
)

const (
	// defaultFetchRate limits Gmail API calls per second during bulk
	// fetches to stay under the per-user quota.
	defaultFetchRate = 25

	// maxConcurrentFetches bounds the fetch worker pool. Empirically
	// chosen, prevents throttling.
	maxConcurrentFetches = 12
)

// MessageRef is a lightweight reference to a message, as returned by the
// list/search endpoints.
type MessageRef struct {
	ID       string
	ThreadID string
}

// Client wraps the Gmail Users service for a single authenticated account.
type Client struct {
	svc     *gmail.UsersService
	account string
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	limiter *rate.Limiter

	signature string // cached signature for this account
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics sets the metrics recorder used by the client.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithFetchRate overrides the bulk-fetch rate limit (calls per second).
func WithFetchRate(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication
// for a specific account. A token must already be cached for the account;
// run the auth flow first if not.
func NewClientForAccount(ctx context.Context, account string, opts ...Option) (*Client, error) {
	c := &Client{
		account: account,
		logger:  slog.Default(),
		metrics: &instrumentation.Metrics{},
		limiter: rate.NewLimiter(rate.Limit(defaultFetchRate), defaultFetchRate),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithAccount(c.logger, account)

	// Building the HTTP client validates the cached token, refreshing it
	// against the OAuth endpoint when expired.
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		c.metrics.RecordOAuthTokenRefresh(ctx, "failure")
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}
	c.metrics.RecordOAuthTokenRefresh(ctx, "success")

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	c.svc = svc.Users

	return c, nil
}

// NewClient creates a new Gmail client for the default account
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	return NewClientForAccount(ctx, "default", opts...)
}

// Search lists message references matching the query and label IDs, following
// pagination until all matches are collected. An empty query matches all
// messages.
func (c *Client) Search(ctx context.Context, query string, labelIDs []string, includeSpamTrash bool) ([]*MessageRef, error) {
	var refs []*MessageRef
	pageToken := ""

	for {
		req := c.svc.Messages.List("me").Q(query).IncludeSpamTrash(includeSpamTrash).Context(ctx)
		if len(labelIDs) > 0 {
			req = req.LabelIds(labelIDs...)
		}
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		start := time.Now()
		res, err := req.Do()
		c.metrics.Timed(ctx, "messages.list", start, err)
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, m := range res.Messages {
			refs = append(refs, &MessageRef{ID: m.Id, ThreadID: m.ThreadId})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	c.logger.Debug("search complete",
		logging.Operation("messages.list"),
		slog.String(logging.KeyQuery, query),
		slog.Int("matches", len(refs)),
	)
	return refs, nil
}

// GetMessages searches for messages and fetches each of them in full.
func (c *Client) GetMessages(ctx context.Context, query string, labelIDs []string, mode AttachmentMode, includeSpamTrash bool) ([]*Message, error) {
	refs, err := c.Search(ctx, query, labelIDs, includeSpamTrash)
	if err != nil {
		return nil, err
	}
	return c.FetchAll(ctx, refs, mode)
}

// GetUnreadInbox gets unread messages from the inbox.
func (c *Client) GetUnreadInbox(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelUnread, LabelInbox}, mode, false)
}

// GetUnreadMessages gets unread messages from the account.
func (c *Client) GetUnreadMessages(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelUnread}, mode, false)
}

// GetStarredMessages gets starred messages from the account.
func (c *Client) GetStarredMessages(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelStarred}, mode, false)
}

// GetImportantMessages gets messages marked important.
func (c *Client) GetImportantMessages(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelImportant}, mode, false)
}

// GetDrafts gets draft messages.
func (c *Client) GetDrafts(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelDraft}, mode, false)
}

// GetSentMessages gets sent messages.
func (c *Client) GetSentMessages(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelSent}, mode, false)
}

// GetTrashMessages gets messages in the trash.
func (c *Client) GetTrashMessages(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelTrash}, mode, true)
}

// GetSpamMessages gets messages marked as spam.
func (c *Client) GetSpamMessages(ctx context.Context, query string, mode AttachmentMode) ([]*Message, error) {
	return c.GetMessages(ctx, query, []string{LabelSpam}, mode, true)
}

// ModifyLabels adds and removes labels on a message and returns the
// resulting label IDs.
func (c *Client) ModifyLabels(ctx context.Context, id string, add, remove []string) ([]string, error) {
	start := time.Now()
	res, err := c.svc.Messages.Modify("me", id, &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}).Context(ctx).Do()
	c.metrics.Timed(ctx, "messages.modify", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to modify labels on message %s: %w", id, err)
	}
	return res.LabelIds, nil
}

// MarkRead marks a message as read by removing the UNREAD label.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, nil, []string{LabelUnread})
	return err
}

// MarkUnread marks a message as unread by adding the UNREAD label.
func (c *Client) MarkUnread(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, []string{LabelUnread}, nil)
	return err
}

// Star stars a message.
func (c *Client) Star(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, []string{LabelStarred}, nil)
	return err
}

// Unstar removes the star from a message.
func (c *Client) Unstar(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, nil, []string{LabelStarred})
	return err
}

// MarkImportant marks a message as important.
func (c *Client) MarkImportant(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, []string{LabelImportant}, nil)
	return err
}

// MarkNotImportant removes the important marker from a message.
func (c *Client) MarkNotImportant(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, nil, []string{LabelImportant})
	return err
}

// MarkSpam marks a message as spam.
func (c *Client) MarkSpam(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, []string{LabelSpam}, nil)
	return err
}

// MarkNotSpam removes the spam marker from a message.
func (c *Client) MarkNotSpam(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, nil, []string{LabelSpam})
	return err
}

// Archive removes a message from the inbox.
func (c *Client) Archive(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, nil, []string{LabelInbox})
	return err
}

// MoveToInbox moves an archived message back to the inbox.
func (c *Client) MoveToInbox(ctx context.Context, id string) error {
	_, err := c.ModifyLabels(ctx, id, []string{LabelInbox}, nil)
	return err
}

// Trash moves a message to the trash.
func (c *Client) Trash(ctx context.Context, id string) error {
	start := time.Now()
	_, err := c.svc.Messages.Trash("me", id).Context(ctx).Do()
	c.metrics.Timed(ctx, "messages.trash", start, err)
	if err != nil {
		return fmt.Errorf("failed to trash message %s: %w", id, err)
	}
	return nil
}

// Untrash removes a message from the trash.
func (c *Client) Untrash(ctx context.Context, id string) error {
	start := time.Now()
	_, err := c.svc.Messages.Untrash("me", id).Context(ctx).Do()
	c.metrics.Timed(ctx, "messages.untrash", start, err)
	if err != nil {
		return fmt.Errorf("failed to untrash message %s: %w", id, err)
	}
	return nil
}

// Signature fetches the account's signature from the primary send-as
// address. The signature is cached after the first fetch.
func (c *Client) Signature(ctx context.Context) (string, error) {
	if c.signature != "" {
		return c.signature, nil
	}

	start := time.Now()
	sendAs, err := c.svc.Settings.SendAs.Get("me", "me").Context(ctx).Do()
	c.metrics.Timed(ctx, "settings.sendAs.get", start, err)
	if err != nil {
		// Sending still works without a signature.
		c.logger.Debug("failed to fetch signature", logging.Err(err))
		return "", nil
	}

	if sendAs.Signature != "" {
		c.signature = sendAs.Signature
	}
	return c.signature, nil
}
