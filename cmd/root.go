package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmailkit/gmailkit/internal/logging"
)

// rootCmd represents the base command for the gmailkit application
var rootCmd = &cobra.Command{
	Use:   "gmailkit",
	Short: "A convenience client for the Gmail API",
	Long: `gmailkit wraps the Gmail REST API for everyday mail work: searching
with typed filters, sending MIME mail, mutating labels and bulk-downloading
attachments.

Credentials come from GMAILKIT_CLIENT_ID / GMAILKIT_CLIENT_SECRET; run
"gmailkit auth" once per account to cache an OAuth token.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var logLevel string

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gmailkit version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cobra.OnInitialize(func() {
		slog.SetDefault(logging.New(parseLogLevel(logLevel)))
	})

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newLabelsCmd())
	rootCmd.AddCommand(newModifyCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
