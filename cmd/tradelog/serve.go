package tradelog

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vignesh-goutham/tradelog/pkg/ingest"
	"github.com/vignesh-goutham/tradelog/pkg/notification"
	"github.com/vignesh-goutham/tradelog/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the trade endpoint over HTTP",
	Long: `Serve the trade endpoint on LISTEN_ADDR. Requests to / and /trades get the same
responses the Lambda function returns.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		tradeStore, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer tradeStore.Close()

		notifier := notification.NewDiscordNotificationService(cfg.DiscordWebhookURL)
		handler := ingest.NewHandler(cfg, tradeStore, notifier, lg)

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           ingest.NewRouter(handler),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			lg.Info().Str("addr", cfg.ListenAddr).Str("backend", cfg.StoreBackend).Msg("Server starting")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		lg.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
