package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxAttachmentSize is the Gmail attachment size limit (25 MB).
const MaxAttachmentSize = 25 * 1024 * 1024

// ErrAttachmentTooLarge is returned when an attachment exceeds
// MaxAttachmentSize.
var ErrAttachmentTooLarge = errors.New("attachment exceeds 25 MB limit")

// Attachment is a file attached to a message. Data is nil until Download
// is called (or the message was fetched with AttachmentsDownload).
type Attachment struct {
	client *Client

	MessageID    string
	AttachmentID string
	Filename     string
	MimeType     string
	Size         int64
	Data         []byte
}

// Downloaded reports whether the attachment payload has been fetched.
func (a *Attachment) Downloaded() bool {
	return a.Data != nil
}

// Download fetches the attachment payload. Calling it again after a
// successful fetch is a no-op.
func (a *Attachment) Download(ctx context.Context) error {
	if a.Downloaded() {
		return nil
	}
	if a.Size > MaxAttachmentSize {
		return fmt.Errorf("%s: %w", a.Filename, ErrAttachmentTooLarge)
	}

	start := time.Now()
	res, err := a.client.svc.Messages.Attachments.Get("me", a.MessageID, a.AttachmentID).Context(ctx).Do()
	a.client.metrics.Timed(ctx, "attachments.get", start, err)
	if err != nil {
		return fmt.Errorf("failed to download attachment %s: %w", a.Filename, err)
	}

	data, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(res.Data, "="))
	if err != nil {
		return fmt.Errorf("failed to decode attachment %s: %w", a.Filename, err)
	}

	a.Data = data
	a.client.metrics.RecordAttachmentBytes(ctx, int64(len(data)))
	return nil
}

// Save writes the attachment to path, downloading it first if necessary.
// It refuses to overwrite an existing file unless overwrite is set.
func (a *Attachment) Save(ctx context.Context, path string, overwrite bool) error {
	if err := a.Download(ctx); err != nil {
		return err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write attachment to %s: %w", path, err)
	}
	return nil
}

// SaveTo saves the attachment into dir under its own (sanitized) filename
// and returns the path written.
func (a *Attachment) SaveTo(ctx context.Context, dir string, overwrite bool) (string, error) {
	name := SanitizeFilename(a.Filename)
	if name == "" {
		name = "attachment"
	}
	path := filepath.Join(dir, name)
	if err := a.Save(ctx, path, overwrite); err != nil {
		return "", err
	}
	return path, nil
}

// SanitizeFilename strips path separators and control characters from an
// attachment filename so it is safe to use on the local filesystem.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, r == 0x7f:
			// drop control characters
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
