package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/k3a/html2text"
	gmail "google.golang.org/api/gmail/v1"
)

// AttachmentMode controls how much attachment data GetMessage pulls down.
type AttachmentMode int

const (
	// AttachmentsIgnore skips attachments entirely.
	AttachmentsIgnore AttachmentMode = iota
	// AttachmentsReference records attachment metadata without fetching
	// the payload. The payload can be fetched later via Attachment.Download.
	AttachmentsReference
	// AttachmentsDownload fetches the payload of every attachment
	// immediately.
	AttachmentsDownload
)

// ParseAttachmentMode maps a CLI-facing mode name to an AttachmentMode.
func ParseAttachmentMode(s string) (AttachmentMode, error) {
	switch s {
	case "ignore", "":
		return AttachmentsIgnore, nil
	case "reference":
		return AttachmentsReference, nil
	case "download":
		return AttachmentsDownload, nil
	}
	return AttachmentsIgnore, fmt.Errorf("unknown attachment mode %q (want ignore, reference or download)", s)
}

// Message is a decoded Gmail message. Plain and HTML hold the text/plain
// and text/html bodies found in the MIME tree; either may be empty.
type Message struct {
	ID          string
	ThreadID    string
	Sender      string
	Recipient   string
	Subject     string
	Date        string
	Snippet     string
	Plain       string
	HTML        string
	LabelIDs    []string
	Headers     map[string]string
	Attachments []*Attachment
}

// PlainText returns the plain-text body, falling back to a text rendering
// of the HTML body when no text/plain part exists.
func (m *Message) PlainText() string {
	if m.Plain != "" {
		return m.Plain
	}
	if m.HTML != "" {
		return html2text.HTML2Text(m.HTML)
	}
	return ""
}

// HasLabel reports whether the message carries the given label ID.
func (m *Message) HasLabel(id string) bool {
	for _, l := range m.LabelIDs {
		if l == id {
			return true
		}
	}
	return false
}

// GetMessage fetches a message in full and decodes its MIME tree.
func (c *Client) GetMessage(ctx context.Context, id string, mode AttachmentMode) (*Message, error) {
	start := time.Now()
	raw, err := c.svc.Messages.Get("me", id).Format("full").Context(ctx).Do()
	c.metrics.Timed(ctx, "messages.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	msg, err := c.decodeMessage(raw, mode)
	if err != nil {
		return nil, err
	}

	if mode == AttachmentsDownload {
		for _, att := range msg.Attachments {
			if err := att.Download(ctx); err != nil {
				return nil, err
			}
		}
	}
	return msg, nil
}

func (c *Client) decodeMessage(raw *gmail.Message, mode AttachmentMode) (*Message, error) {
	msg := &Message{
		ID:       raw.Id,
		ThreadID: raw.ThreadId,
		Snippet:  html.UnescapeString(raw.Snippet),
		LabelIDs: raw.LabelIds,
		Headers:  map[string]string{},
	}

	if raw.Payload == nil {
		return msg, nil
	}

	for _, h := range raw.Payload.Headers {
		msg.Headers[h.Name] = h.Value
		switch strings.ToLower(h.Name) {
		case "from":
			msg.Sender = h.Value
		case "to":
			msg.Recipient = h.Value
		case "subject":
			msg.Subject = h.Value
		case "date":
			msg.Date = h.Value
		}
	}

	if err := c.walkParts(msg, raw.Payload, mode); err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", raw.Id, err)
	}
	return msg, nil
}

// walkParts descends the MIME tree collecting text bodies and attachment
// references. Multipart containers carry no body of their own; their
// children do.
func (c *Client) walkParts(msg *Message, part *gmail.MessagePart, mode AttachmentMode) error {
	if strings.HasPrefix(part.MimeType, "multipart/") {
		for _, child := range part.Parts {
			if err := c.walkParts(msg, child, mode); err != nil {
				return err
			}
		}
		return nil
	}

	// Parts with a filename are attachments regardless of MIME type.
	if part.Filename != "" {
		if mode == AttachmentsIgnore || part.Body == nil {
			return nil
		}
		msg.Attachments = append(msg.Attachments, &Attachment{
			client:       c,
			MessageID:    msg.ID,
			AttachmentID: part.Body.AttachmentId,
			Filename:     part.Filename,
			MimeType:     part.MimeType,
			Size:         part.Body.Size,
		})
		return nil
	}

	if part.Body == nil || part.Body.Data == "" {
		return nil
	}

	switch part.MimeType {
	case "text/plain":
		data, err := decodeBody(part.Body.Data)
		if err != nil {
			return err
		}
		msg.Plain += data
	case "text/html":
		data, err := decodeBody(part.Body.Data)
		if err != nil {
			return err
		}
		msg.HTML += data
	}
	return nil
}

// decodeBody decodes a Gmail body payload. The API documents URL-safe
// base64, but some senders produce standard-alphabet data, so fall back.
func decodeBody(data string) (string, error) {
	b, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err == nil {
		return string(b), nil
	}
	b, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode message body: %w", err)
	}
	return string(b), nil
}
