package archive

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmailkit/gmailkit/internal/gmail"
)

func TestWriteIndex(t *testing.T) {
	dir := t.TempDir()
	d := &Downloader{Dir: dir}

	msgs := []*gmail.Message{
		{
			ID:        "m1",
			Sender:    "john@doe.com",
			Recipient: "jane@doe.com",
			Subject:   "Q3 report",
			Date:      "Mon, 24 Aug 2026 10:00:00 +0000",
			Snippet:   "attached, \"as discussed\"",
			Attachments: []*gmail.Attachment{
				{Filename: "report.pdf"},
			},
		},
		{ID: "m2", Subject: "no attachments here"},
	}

	path, err := d.writeIndex(msgs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "sender", "recipient", "subject", "date", "snippet", "attachments"}, rows[0])
	assert.Equal(t, "m1", rows[1][0])
	assert.Equal(t, `attached, "as discussed"`, rows[1][5], "csv quoting must round-trip")
	assert.Equal(t, "1", rows[1][6])
	assert.Equal(t, "0", rows[2][6])
}

func TestNewDownloaderDefaultsLogger(t *testing.T) {
	d := NewDownloader(nil, t.TempDir(), nil)
	assert.NotNil(t, d.logger)
}
