package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmailkit/gmailkit/internal/gmail"
)

func TestListFlagsToFilterOptions(t *testing.T) {
	flags := listFlags{
		from:          "john@doe.com",
		subject:       "weekly sync",
		labels:        []string{"Work", "Homework,CS"},
		newerThan:     "2d",
		unread:        true,
		hasAttachment: true,
	}

	opts, err := flags.filterOptions()
	require.NoError(t, err)

	assert.Equal(t, "john@doe.com", opts.Sender)
	assert.Equal(t, [][]string{{"Work"}, {"Homework", "CS"}}, opts.Labels)
	assert.Equal(t, &gmail.RelativeTime{Count: 2, Unit: gmail.UnitDay}, opts.NewerThan)
	assert.True(t, opts.Unread)

	query, err := gmail.BuildQuery(opts)
	require.NoError(t, err)
	assert.Equal(t,
		`from:john@doe.com subject:"weekly sync" ((label:Work) OR (label:Homework label:CS)) newer_than:2d has:attachment is:unread`,
		query)
}

func TestListFlagsRejectBadDurations(t *testing.T) {
	for _, bad := range []string{"2w", "x", "-1d"} {
		flags := listFlags{newerThan: bad}
		_, err := flags.filterOptions()
		require.Error(t, err, bad)

		flags = listFlags{olderThan: bad}
		_, err = flags.filterOptions()
		require.Error(t, err, bad)
	}
}

func TestListFlagsSkipBlankLabelNames(t *testing.T) {
	flags := listFlags{labels: []string{" , ", "Work, "}}
	opts, err := flags.filterOptions()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Work"}}, opts.Labels)
}
