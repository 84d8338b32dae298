package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmailkit/gmailkit/internal/archive"
	"github.com/gmailkit/gmailkit/internal/gmail"
	"github.com/gmailkit/gmailkit/internal/instrumentation"
)

func newDownloadCmd() *cobra.Command {
	var (
		account     string
		query       string
		dir         string
		overwrite   bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Bulk-download attachments for matching messages",
		Long: `Fetch every message matching the query and save its attachments under
the target directory as <messageID>_<n>_<filename>, together with an
index.csv describing the messages.

With --metrics-addr a Prometheus endpoint is served at /metrics for the
duration of the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig(version))
			if err != nil {
				return fmt.Errorf("failed to initialize instrumentation: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.Warn("instrumentation shutdown failed", slog.String("error", err.Error()))
				}
			}()

			if metricsAddr != "" {
				handler := provider.MetricsHandler()
				if handler == nil {
					return errors.New("--metrics-addr requires the prometheus exporter")
				}
				mux := http.NewServeMux()
				mux.Handle("/metrics", handler)
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server failed", slog.String("error", err.Error()))
					}
				}()
				defer srv.Close()
				logger.Info("serving metrics", slog.String("addr", metricsAddr))
			}

			client, err := gmail.NewClientForAccount(ctx, account,
				gmail.WithLogger(logger),
				gmail.WithMetrics(provider.Metrics()),
			)
			if err != nil {
				return err
			}

			d := archive.NewDownloader(client, dir, logger)
			d.Overwrite = overwrite

			res, err := d.Run(ctx, query)
			if err != nil {
				return err
			}

			fmt.Printf("Saved %d attachments from %d messages; index at %s\n",
				res.Attachments, res.Messages, res.IndexPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&query, "query", "has:attachment", "Gmail query selecting the messages to archive")
	cmd.Flags().StringVar(&dir, "dir", "attachments", "Target directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite previously downloaded files")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	return cmd
}
