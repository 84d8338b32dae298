package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jordan-wright/email"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/gmailkit/gmailkit/internal/logging"
)

// OutgoingMessage describes a message to send. To, Sender and at least one
// of Plain or HTML are required; everything else is optional.
type OutgoingMessage struct {
	Sender  string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Plain   string
	HTML    string

	// AttachmentPaths lists local files to attach.
	AttachmentPaths []string

	// AppendSignature appends the account's Gmail signature to the HTML
	// body. A plain-only message gets an HTML body derived from it first.
	AppendSignature bool
}

func (o *OutgoingMessage) validate() error {
	if o.Sender == "" {
		return errors.New("outgoing message has no sender")
	}
	if len(o.To) == 0 {
		return errors.New("outgoing message has no recipients")
	}
	if o.Plain == "" && o.HTML == "" {
		return errors.New("outgoing message has no body")
	}
	return nil
}

// encodeOutgoing assembles the message as MIME and returns the base64url
// raw payload the API expects.
func (c *Client) encodeOutgoing(ctx context.Context, out *OutgoingMessage) (string, error) {
	if err := out.validate(); err != nil {
		return "", err
	}

	e := email.NewEmail()
	e.From = out.Sender
	e.To = out.To
	e.Cc = out.Cc
	e.Bcc = out.Bcc
	e.Subject = out.Subject

	htmlBody := out.HTML
	if out.AppendSignature {
		sig, err := c.Signature(ctx)
		if err != nil {
			return "", err
		}
		if sig != "" {
			if htmlBody == "" {
				htmlBody = out.Plain
			}
			htmlBody += "<br /><br />" + sig
		}
	}

	if out.Plain != "" {
		e.Text = []byte(out.Plain)
	}
	if htmlBody != "" {
		e.HTML = []byte(htmlBody)
	}

	for _, path := range out.AttachmentPaths {
		if _, err := e.AttachFile(path); err != nil {
			return "", fmt.Errorf("failed to attach %s: %w", path, err)
		}
	}

	rawBytes, err := e.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to assemble message: %w", err)
	}
	return base64.URLEncoding.EncodeToString(rawBytes), nil
}

// Send assembles the message as MIME, submits it and returns the decoded
// sent message.
func (c *Client) Send(ctx context.Context, out *OutgoingMessage) (*Message, error) {
	raw, err := c.encodeOutgoing(ctx, out)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	c.metrics.Timed(ctx, "messages.send", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	// Log hashed recipient identity only; addresses are PII.
	c.logger.Info("message sent",
		logging.MessageID(sent.Id),
		logging.UserHash(out.To[0]),
		logging.Domain(out.To[0]),
	)

	return c.GetMessage(ctx, sent.Id, AttachmentsIgnore)
}
