// Package archive bulk-downloads message attachments into a local
// directory and writes a CSV index describing the messages they came from.
package archive

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gmailkit/gmailkit/internal/gmail"
	"github.com/gmailkit/gmailkit/internal/logging"
)

// indexFilename is the per-run CSV index written alongside attachments.
const indexFilename = "index.csv"

// Downloader saves the attachments of all messages matching a query.
type Downloader struct {
	client *gmail.Client
	logger *slog.Logger

	// Dir is the target directory. Created if missing.
	Dir string

	// Overwrite allows clobbering previously downloaded files.
	Overwrite bool
}

// NewDownloader creates a Downloader writing into dir.
func NewDownloader(client *gmail.Client, dir string, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		client: client,
		logger: logger,
		Dir:    dir,
	}
}

// Result summarizes a completed run.
type Result struct {
	Messages    int
	Attachments int
	IndexPath   string
}

// Run fetches every message matching query, saves each attachment under
// Dir as <messageID>_<n>_<filename>, and writes index.csv with one row per
// message.
func (d *Downloader) Run(ctx context.Context, query string) (*Result, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", d.Dir, err)
	}

	msgs, err := d.client.GetMessages(ctx, query, nil, gmail.AttachmentsReference, false)
	if err != nil {
		return nil, err
	}

	res := &Result{Messages: len(msgs)}

	for _, msg := range msgs {
		for i, att := range msg.Attachments {
			name := gmail.SanitizeFilename(att.Filename)
			if name == "" {
				name = "attachment"
			}
			path := filepath.Join(d.Dir, fmt.Sprintf("%s_%d_%s", msg.ID, i, name))

			if err := att.Save(ctx, path, d.Overwrite); err != nil {
				return nil, fmt.Errorf("message %s: %w", msg.ID, err)
			}
			res.Attachments++

			d.logger.Info("saved attachment",
				logging.MessageID(msg.ID),
				slog.String("path", path),
				slog.Int64("bytes", int64(len(att.Data))),
			)
		}
	}

	indexPath, err := d.writeIndex(msgs)
	if err != nil {
		return nil, err
	}
	res.IndexPath = indexPath

	d.logger.Info("archive complete",
		logging.Operation("archive.run"),
		logging.Status(logging.StatusSuccess),
		slog.Int("messages", res.Messages),
		slog.Int("attachments", res.Attachments),
	)
	return res, nil
}

func (d *Downloader) writeIndex(msgs []*gmail.Message) (string, error) {
	path := filepath.Join(d.Dir, indexFilename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create index: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "sender", "recipient", "subject", "date", "snippet", "attachments"}); err != nil {
		return "", fmt.Errorf("failed to write index header: %w", err)
	}
	for _, msg := range msgs {
		row := []string{
			msg.ID,
			msg.Sender,
			msg.Recipient,
			msg.Subject,
			msg.Date,
			msg.Snippet,
			fmt.Sprintf("%d", len(msg.Attachments)),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write index row for %s: %w", msg.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush index: %w", err)
	}
	return path, nil
}
