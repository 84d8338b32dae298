package gmail

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: "/tmp/evil.sh", want: "evil.sh"},
		{in: "inv:oice*2026?.pdf", want: "inv_oice_2026_.pdf"},
		{in: "name\x00with\x1fctrl.txt", want: "namewithctrl.txt"},
		{in: " spaced.txt ", want: "spaced.txt"},
		{in: ".", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}
}

func TestAttachmentSave(t *testing.T) {
	dir := t.TempDir()
	att := &Attachment{
		Filename: "notes.txt",
		Data:     []byte("hello"),
	}

	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, att.Save(context.Background(), path, false))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	// Second save must refuse to clobber the file.
	err = att.Save(context.Background(), path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// But overwrite is allowed when asked for.
	att.Data = []byte("updated")
	require.NoError(t, att.Save(context.Background(), path, true))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), got)
}

func TestAttachmentSaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	att := &Attachment{Filename: "a.bin", Data: []byte{1, 2, 3}}

	path := filepath.Join(dir, "nested", "deeper", "a.bin")
	require.NoError(t, att.Save(context.Background(), path, false))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestAttachmentSaveTo(t *testing.T) {
	dir := t.TempDir()
	att := &Attachment{Filename: "../sneaky.txt", Data: []byte("x")}

	path, err := att.SaveTo(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sneaky.txt"), path)
}

func TestDownloadRejectsOversizedAttachment(t *testing.T) {
	att := &Attachment{
		Filename: "huge.iso",
		Size:     MaxAttachmentSize + 1,
	}
	err := att.Download(context.Background())
	require.ErrorIs(t, err, ErrAttachmentTooLarge)
}

func TestDownloadIsIdempotentOnceFetched(t *testing.T) {
	// Data already present means no API call is attempted, so the nil
	// client is never touched.
	att := &Attachment{Filename: "done.txt", Data: []byte("cached")}
	require.NoError(t, att.Download(context.Background()))
	assert.Equal(t, []byte("cached"), att.Data)
}
