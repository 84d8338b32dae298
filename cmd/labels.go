package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmailkit/gmailkit/internal/gmail"
)

func newLabelsCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List the account's labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return err
			}

			labels, err := client.ListLabels(ctx)
			if err != nil {
				return err
			}

			for _, l := range labels {
				fmt.Printf("%s\t%s\t%s\n", l.ID, l.Type, l.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	return cmd
}
