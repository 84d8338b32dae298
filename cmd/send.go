package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmailkit/gmailkit/internal/gmail"
)

func newSendCmd() *cobra.Command {
	var (
		account   string
		sender    string
		to        []string
		cc        []string
		bcc       []string
		subject   string
		text      string
		html      string
		attach    []string
		signature bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message",
		Long: `Assemble a MIME message and send it through the authenticated account.
At least one of --text or --html is required. --attach is repeatable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			sent, err := client.Send(ctx, &gmail.OutgoingMessage{
				Sender:          sender,
				To:              to,
				Cc:              cc,
				Bcc:             bcc,
				Subject:         subject,
				Plain:           text,
				HTML:            html,
				AttachmentPaths: attach,
				AppendSignature: signature,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Sent message %s (thread %s)\n", sent.ID, sent.ThreadID)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&sender, "from", "me", "Sender address")
	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient address (repeatable)")
	cmd.Flags().StringSliceVar(&cc, "cc", nil, "Cc address (repeatable)")
	cmd.Flags().StringSliceVar(&bcc, "bcc", nil, "Bcc address (repeatable)")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject line")
	cmd.Flags().StringVar(&text, "text", "", "Plain-text body")
	cmd.Flags().StringVar(&html, "html", "", "HTML body")
	cmd.Flags().StringArrayVar(&attach, "attach", nil, "File to attach (repeatable)")
	cmd.Flags().BoolVar(&signature, "signature", false, "Append the account's Gmail signature")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
