package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

func b64url(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestDecodeMessageHeaders(t *testing.T) {
	c := &Client{}
	raw := &gmail.Message{
		Id:       "m1",
		ThreadId: "t1",
		Snippet:  "Hello &amp; welcome",
		LabelIds: []string{LabelInbox, LabelUnread},
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "John Doe <john@doe.com>"},
				{Name: "To", Value: "jane@doe.com"},
				{Name: "Subject", Value: "Meeting"},
				{Name: "Date", Value: "Mon, 24 Aug 2026 10:00:00 +0000"},
				{Name: "Message-ID", Value: "<abc@mail.gmail.com>"},
			},
			Body: &gmail.MessagePartBody{Data: b64url("see you there")},
		},
	}

	msg, err := c.decodeMessage(raw, AttachmentsIgnore)
	require.NoError(t, err)

	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "t1", msg.ThreadID)
	assert.Equal(t, "Hello & welcome", msg.Snippet, "snippet entities must be unescaped")
	assert.Equal(t, "John Doe <john@doe.com>", msg.Sender)
	assert.Equal(t, "jane@doe.com", msg.Recipient)
	assert.Equal(t, "Meeting", msg.Subject)
	assert.Equal(t, "see you there", msg.Plain)
	assert.Equal(t, "<abc@mail.gmail.com>", msg.Headers["Message-ID"])
	assert.True(t, msg.HasLabel(LabelUnread))
	assert.False(t, msg.HasLabel(LabelStarred))
}

func TestDecodeMessageMultipart(t *testing.T) {
	c := &Client{}
	raw := &gmail.Message{
		Id: "m2",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{
							MimeType: "text/plain",
							Body:     &gmail.MessagePartBody{Data: b64url("plain body")},
						},
						{
							MimeType: "text/html",
							Body:     &gmail.MessagePartBody{Data: b64url("<p>html body</p>")},
						},
					},
				},
				{
					MimeType: "application/pdf",
					Filename: "report.pdf",
					Body:     &gmail.MessagePartBody{AttachmentId: "att-1", Size: 1024},
				},
			},
		},
	}

	msg, err := c.decodeMessage(raw, AttachmentsReference)
	require.NoError(t, err)

	assert.Equal(t, "plain body", msg.Plain)
	assert.Equal(t, "<p>html body</p>", msg.HTML)
	require.Len(t, msg.Attachments, 1)
	att := msg.Attachments[0]
	assert.Equal(t, "report.pdf", att.Filename)
	assert.Equal(t, "att-1", att.AttachmentID)
	assert.Equal(t, "m2", att.MessageID)
	assert.False(t, att.Downloaded())
}

func TestDecodeMessageIgnoresAttachments(t *testing.T) {
	c := &Client{}
	raw := &gmail.Message{
		Id: "m3",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "image/png",
					Filename: "cat.png",
					Body:     &gmail.MessagePartBody{AttachmentId: "att-2", Size: 99},
				},
			},
		},
	}

	msg, err := c.decodeMessage(raw, AttachmentsIgnore)
	require.NoError(t, err)
	assert.Empty(t, msg.Attachments)
}

func TestDecodeBody(t *testing.T) {
	t.Run("url safe", func(t *testing.T) {
		got, err := decodeBody(base64.URLEncoding.EncodeToString([]byte("a>b?c")))
		require.NoError(t, err)
		assert.Equal(t, "a>b?c", got)
	})

	t.Run("standard alphabet fallback", func(t *testing.T) {
		got, err := decodeBody(base64.StdEncoding.EncodeToString([]byte{0xfb, 0xff, 0x01}))
		require.NoError(t, err)
		assert.Equal(t, string([]byte{0xfb, 0xff, 0x01}), got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := decodeBody("not base64 at all!!!")
		require.Error(t, err)
	})
}

func TestPlainTextFallsBackToHTML(t *testing.T) {
	msg := &Message{HTML: "<p>Hello <b>world</b></p>"}
	got := msg.PlainText()
	assert.Contains(t, got, "Hello")
	assert.Contains(t, got, "world")
	assert.NotContains(t, got, "<p>")

	msg.Plain = "already plain"
	assert.Equal(t, "already plain", msg.PlainText())
}

func TestParseAttachmentMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AttachmentMode
		wantErr bool
	}{
		{in: "", want: AttachmentsIgnore},
		{in: "ignore", want: AttachmentsIgnore},
		{in: "reference", want: AttachmentsReference},
		{in: "download", want: AttachmentsDownload},
		{in: "everything", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAttachmentMode(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
