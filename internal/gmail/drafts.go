package gmail

import (
	"context"
	"fmt"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// Draft is a saved draft and its decoded message.
type Draft struct {
	ID      string
	Message *Message
}

// CreateDraft saves an outgoing message as a draft without sending it.
func (c *Client) CreateDraft(ctx context.Context, out *OutgoingMessage) (*Draft, error) {
	raw, err := c.encodeOutgoing(ctx, out)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Context(ctx).Do()
	c.metrics.Timed(ctx, "drafts.create", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	msg, err := c.GetMessage(ctx, res.Message.Id, AttachmentsIgnore)
	if err != nil {
		return nil, err
	}
	return &Draft{ID: res.Id, Message: msg}, nil
}

// SendDraft sends an existing draft and returns the decoded sent message.
func (c *Client) SendDraft(ctx context.Context, id string) (*Message, error) {
	start := time.Now()
	sent, err := c.svc.Drafts.Send("me", &gmail.Draft{Id: id}).Context(ctx).Do()
	c.metrics.Timed(ctx, "drafts.send", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to send draft %s: %w", id, err)
	}
	return c.GetMessage(ctx, sent.Id, AttachmentsIgnore)
}

// DeleteDraft discards a draft permanently.
func (c *Client) DeleteDraft(ctx context.Context, id string) error {
	start := time.Now()
	err := c.svc.Drafts.Delete("me", id).Context(ctx).Do()
	c.metrics.Timed(ctx, "drafts.delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}
