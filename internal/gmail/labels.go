package gmail

import (
	"context"
	"fmt"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// System label IDs as defined by the Gmail API. User-created labels have
// opaque IDs of the form "Label_<n>" and must be resolved via ListLabels.
const (
	LabelInbox      = "INBOX"
	LabelUnread     = "UNREAD"
	LabelStarred    = "STARRED"
	LabelSent       = "SENT"
	LabelImportant  = "IMPORTANT"
	LabelDraft      = "DRAFT"
	LabelPersonal   = "CATEGORY_PERSONAL"
	LabelSocial     = "CATEGORY_SOCIAL"
	LabelPromotions = "CATEGORY_PROMOTIONS"
	LabelUpdates    = "CATEGORY_UPDATES"
	LabelForums     = "CATEGORY_FORUMS"
	LabelSpam       = "SPAM"
	LabelTrash      = "TRASH"
)

// Label is a Gmail label. Name is what users see in the UI; ID is what the
// API wants in modify requests.
type Label struct {
	ID   string
	Name string
	Type string // "system" or "user"
}

// ListLabels returns all labels on the account.
func (c *Client) ListLabels(ctx context.Context) ([]*Label, error) {
	start := time.Now()
	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	c.metrics.Timed(ctx, "labels.list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labels := make([]*Label, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, &Label{
			ID:   l.Id,
			Name: l.Name,
			Type: l.Type,
		})
	}
	return labels, nil
}

// FindLabel returns the label with the given name, or nil if the account
// has no such label. Matching is exact.
func (c *Client) FindLabel(ctx context.Context, name string) (*Label, error) {
	labels, err := c.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range labels {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}

// CreateLabel creates a user label with the given name.
func (c *Client) CreateLabel(ctx context.Context, name string) (*Label, error) {
	start := time.Now()
	res, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	c.metrics.Timed(ctx, "labels.create", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return &Label{ID: res.Id, Name: res.Name, Type: res.Type}, nil
}

// DeleteLabel removes a user label. The messages carrying it are kept.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	start := time.Now()
	err := c.svc.Labels.Delete("me", id).Context(ctx).Do()
	c.metrics.Timed(ctx, "labels.delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete label %s: %w", id, err)
	}
	return nil
}
