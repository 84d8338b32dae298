package gmail

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutgoingMessageValidate(t *testing.T) {
	valid := OutgoingMessage{
		Sender: "me@example.com",
		To:     []string{"you@example.com"},
		Plain:  "hi",
	}
	require.NoError(t, valid.validate())

	tests := []struct {
		name   string
		mutate func(*OutgoingMessage)
	}{
		{name: "no sender", mutate: func(o *OutgoingMessage) { o.Sender = "" }},
		{name: "no recipients", mutate: func(o *OutgoingMessage) { o.To = nil }},
		{name: "no body", mutate: func(o *OutgoingMessage) { o.Plain = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := valid
			tt.mutate(&out)
			assert.Error(t, out.validate())
		})
	}
}

func TestSendRejectsInvalidMessage(t *testing.T) {
	c := &Client{}
	_, err := c.Send(context.Background(), &OutgoingMessage{})
	require.Error(t, err)
}

func TestEncodeOutgoing(t *testing.T) {
	c := &Client{}
	raw, err := c.encodeOutgoing(context.Background(), &OutgoingMessage{
		Sender:  "me@example.com",
		To:      []string{"you@example.com"},
		Subject: "quarterly numbers",
		Plain:   "see below",
		HTML:    "<p>see below</p>",
	})
	require.NoError(t, err)

	decoded, err := base64.URLEncoding.DecodeString(raw)
	require.NoError(t, err)
	mime := string(decoded)

	assert.Contains(t, mime, "From: me@example.com")
	assert.Contains(t, mime, "To: you@example.com")
	assert.Contains(t, mime, "Subject: quarterly numbers")
	assert.Contains(t, mime, "see below")
	assert.Contains(t, mime, "multipart/")
}

func TestCreateDraftRejectsInvalidMessage(t *testing.T) {
	c := &Client{}
	_, err := c.CreateDraft(context.Background(), &OutgoingMessage{Sender: "me@example.com"})
	require.Error(t, err)
}
