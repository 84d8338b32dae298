package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmailkit/gmailkit/internal/gmail"
)

func newModifyCmd() *cobra.Command {
	var (
		account string
		add     []string
		remove  []string
		read    bool
		unread  bool
		star    bool
		unstar  bool
		trash   bool
		untrash bool
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "modify <message-id> [<message-id>...]",
		Short: "Modify labels and state of messages",
		Long: `Apply label and state changes to one or more messages. Flags combine;
for example --read --archive marks a message read and removes it from the
inbox in one call each.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !trash && !untrash && !read && !unread && !star && !unstar && !archive && len(add) == 0 && len(remove) == 0 {
				return errors.New("no modification requested")
			}

			ctx := cmd.Context()
			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			addIDs, err := resolveLabelIDs(ctx, client, add)
			if err != nil {
				return err
			}
			removeIDs, err := resolveLabelIDs(ctx, client, remove)
			if err != nil {
				return err
			}

			if read {
				removeIDs = append(removeIDs, gmail.LabelUnread)
			}
			if unread {
				addIDs = append(addIDs, gmail.LabelUnread)
			}
			if star {
				addIDs = append(addIDs, gmail.LabelStarred)
			}
			if unstar {
				removeIDs = append(removeIDs, gmail.LabelStarred)
			}
			if archive {
				removeIDs = append(removeIDs, gmail.LabelInbox)
			}

			for _, id := range args {
				if len(addIDs) > 0 || len(removeIDs) > 0 {
					if _, err := client.ModifyLabels(ctx, id, addIDs, removeIDs); err != nil {
						return err
					}
				}
				if trash {
					if err := client.Trash(ctx, id); err != nil {
						return err
					}
				}
				if untrash {
					if err := client.Untrash(ctx, id); err != nil {
						return err
					}
				}
				fmt.Printf("Modified %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringSliceVar(&add, "add", nil, "Label name to add (repeatable)")
	cmd.Flags().StringSliceVar(&remove, "remove", nil, "Label name to remove (repeatable)")
	cmd.Flags().BoolVar(&read, "read", false, "Mark as read")
	cmd.Flags().BoolVar(&unread, "unread", false, "Mark as unread")
	cmd.Flags().BoolVar(&star, "star", false, "Star the message")
	cmd.Flags().BoolVar(&unstar, "unstar", false, "Remove the star")
	cmd.Flags().BoolVar(&trash, "trash", false, "Move to trash")
	cmd.Flags().BoolVar(&untrash, "untrash", false, "Remove from trash")
	cmd.Flags().BoolVar(&archive, "archive", false, "Remove from inbox")
	cmd.MarkFlagsMutuallyExclusive("trash", "untrash")
	cmd.MarkFlagsMutuallyExclusive("read", "unread")
	cmd.MarkFlagsMutuallyExclusive("star", "unstar")
	return cmd
}

// resolveLabelIDs maps user-facing label names to label IDs, fetching the
// account's label list on first use.
func resolveLabelIDs(ctx context.Context, client *gmail.Client, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	labels, err := client.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(labels))
	for _, l := range labels {
		byName[l.Name] = l.ID
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("no such label: %s", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
