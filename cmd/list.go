package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmailkit/gmailkit/internal/gmail"
)

// listFlags collects the filter flags of the list command before they are
// turned into FilterOptions.
type listFlags struct {
	from          string
	to            string
	cc            string
	bcc           string
	subject       string
	phrase        string
	filename      string
	labels        []string
	after         string
	before        string
	newerThan     string
	olderThan     string
	larger        int64
	smaller       int64
	read          bool
	unread        bool
	starred       bool
	notStarred    bool
	important     bool
	snoozed       bool
	hasAttachment bool
	fromMe        bool
	toMe          bool
}

// filterOptions translates the flag values into FilterOptions. Each --label
// flag is one OR alternative; commas inside a flag AND the labels together.
func (f *listFlags) filterOptions() (gmail.FilterOptions, error) {
	opts := gmail.FilterOptions{
		Sender:         f.from,
		Recipient:      f.to,
		Cc:             f.cc,
		Bcc:            f.bcc,
		Subject:        f.subject,
		ExactPhrase:    f.phrase,
		Filename:       f.filename,
		After:          f.after,
		Before:         f.before,
		LargerThan:     f.larger,
		SmallerThan:    f.smaller,
		Read:           f.read,
		Unread:         f.unread,
		Starred:        f.starred,
		ExcludeStarred: f.notStarred,
		Important:      f.important,
		Snoozed:        f.snoozed,
		HasAttachment:  f.hasAttachment,
		FromMe:         f.fromMe,
		ToMe:           f.toMe,
	}

	for _, group := range f.labels {
		var names []string
		for _, name := range strings.Split(group, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			opts.Labels = append(opts.Labels, names)
		}
	}

	if f.newerThan != "" {
		rt, err := gmail.ParseRelativeTime(f.newerThan)
		if err != nil {
			return opts, fmt.Errorf("--newer-than: %w", err)
		}
		opts.NewerThan = rt
	}
	if f.olderThan != "" {
		rt, err := gmail.ParseRelativeTime(f.olderThan)
		if err != nil {
			return opts, fmt.Errorf("--older-than: %w", err)
		}
		opts.OlderThan = rt
	}

	return opts, nil
}

func newListCmd() *cobra.Command {
	var (
		account  string
		rawQuery string
		flags    listFlags
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages matching filters",
		Long: `Search the mailbox with typed filters and print the matches.

Filter flags are ANDed together. --label is repeatable; each occurrence is
an OR alternative and commas within one occurrence AND labels together, so
"--label Work --label Homework,CS" matches Work OR (Homework AND CS).
--query bypasses the filter flags and sends the raw Gmail query string.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			query := rawQuery
			if query == "" {
				opts, err := flags.filterOptions()
				if err != nil {
					return err
				}
				query, err = gmail.BuildQuery(opts)
				if err != nil {
					return err
				}
			}

			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			msgs, err := client.GetMessages(ctx, query, nil, gmail.AttachmentsReference, false)
			if err != nil {
				return err
			}

			for _, msg := range msgs {
				line := fmt.Sprintf("%s\t%s\t%s", msg.ID, msg.Sender, msg.Subject)
				if len(msg.Attachments) > 0 {
					line += fmt.Sprintf("\t(%d attachments)", len(msg.Attachments))
				}
				fmt.Println(line)
			}
			fmt.Printf("%d messages\n", len(msgs))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&rawQuery, "query", "", "Raw Gmail query string (bypasses filter flags)")
	cmd.Flags().StringVar(&flags.from, "from", "", "Sender address or name")
	cmd.Flags().StringVar(&flags.to, "to", "", "Recipient address or name")
	cmd.Flags().StringVar(&flags.cc, "cc", "", "Cc address")
	cmd.Flags().StringVar(&flags.bcc, "bcc", "", "Bcc address")
	cmd.Flags().StringVar(&flags.subject, "subject", "", "Subject text")
	cmd.Flags().StringVar(&flags.phrase, "phrase", "", "Exact phrase to match")
	cmd.Flags().StringVar(&flags.filename, "filename", "", "Attachment filename or extension")
	cmd.Flags().StringArrayVar(&flags.labels, "label", nil, "Label filter; repeatable (OR), comma-separated within one flag (AND)")
	cmd.Flags().StringVar(&flags.after, "after", "", "Only messages after this date (YYYY/MM/DD)")
	cmd.Flags().StringVar(&flags.before, "before", "", "Only messages before this date (YYYY/MM/DD)")
	cmd.Flags().StringVar(&flags.newerThan, "newer-than", "", "Only messages newer than e.g. 2d, 3mo, 1y")
	cmd.Flags().StringVar(&flags.olderThan, "older-than", "", "Only messages older than e.g. 2d, 3mo, 1y")
	cmd.Flags().Int64Var(&flags.larger, "larger", 0, "Only messages larger than this many bytes")
	cmd.Flags().Int64Var(&flags.smaller, "smaller", 0, "Only messages smaller than this many bytes")
	cmd.Flags().BoolVar(&flags.read, "read", false, "Only read messages")
	cmd.Flags().BoolVar(&flags.unread, "unread", false, "Only unread messages")
	cmd.Flags().BoolVar(&flags.starred, "starred", false, "Only starred messages")
	cmd.Flags().BoolVar(&flags.notStarred, "not-starred", false, "Exclude starred messages")
	cmd.Flags().BoolVar(&flags.important, "important", false, "Only messages marked important")
	cmd.Flags().BoolVar(&flags.snoozed, "snoozed", false, "Only snoozed messages")
	cmd.Flags().BoolVar(&flags.hasAttachment, "has-attachment", false, "Only messages with attachments")
	cmd.Flags().BoolVar(&flags.fromMe, "from-me", false, "Only messages sent by me")
	cmd.Flags().BoolVar(&flags.toMe, "to-me", false, "Only messages addressed to me")
	return cmd
}
