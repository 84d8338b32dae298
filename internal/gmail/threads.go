package gmail

import (
	"context"
	"fmt"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// ThreadRef is a lightweight reference to a conversation, as returned by the
// thread list endpoint.
type ThreadRef struct {
	ID      string
	Snippet string
}

// Thread is a conversation with all of its messages decoded.
type Thread struct {
	ID       string
	Messages []*Message
}

// SearchThreads lists thread references matching the query, following
// pagination until all matches are collected.
func (c *Client) SearchThreads(ctx context.Context, query string, labelIDs []string) ([]*ThreadRef, error) {
	var refs []*ThreadRef
	pageToken := ""

	for {
		req := c.svc.Threads.List("me").Q(query).Context(ctx)
		if len(labelIDs) > 0 {
			req = req.LabelIds(labelIDs...)
		}
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		start := time.Now()
		res, err := req.Do()
		c.metrics.Timed(ctx, "threads.list", start, err)
		if err != nil {
			return nil, fmt.Errorf("failed to list threads: %w", err)
		}

		for _, t := range res.Threads {
			refs = append(refs, &ThreadRef{ID: t.Id, Snippet: t.Snippet})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}
	return refs, nil
}

// GetThread fetches a thread in full and decodes each of its messages.
func (c *Client) GetThread(ctx context.Context, id string, mode AttachmentMode) (*Thread, error) {
	start := time.Now()
	raw, err := c.svc.Threads.Get("me", id).Format("full").Context(ctx).Do()
	c.metrics.Timed(ctx, "threads.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", id, err)
	}

	thread, err := c.decodeThread(raw, mode)
	if err != nil {
		return nil, err
	}

	if mode == AttachmentsDownload {
		for _, msg := range thread.Messages {
			for _, att := range msg.Attachments {
				if err := att.Download(ctx); err != nil {
					return nil, err
				}
			}
		}
	}
	return thread, nil
}

func (c *Client) decodeThread(raw *gmail.Thread, mode AttachmentMode) (*Thread, error) {
	thread := &Thread{ID: raw.Id}
	for _, m := range raw.Messages {
		msg, err := c.decodeMessage(m, mode)
		if err != nil {
			return nil, err
		}
		thread.Messages = append(thread.Messages, msg)
	}
	return thread, nil
}
