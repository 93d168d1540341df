package tradelog

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vignesh-goutham/tradelog/pkg/ingest"
	"github.com/vignesh-goutham/tradelog/pkg/notification"
	"github.com/vignesh-goutham/tradelog/pkg/storage"
)

var putCmd = &cobra.Command{
	Use:   "put [file]",
	Short: "Store a trade",
	Long: `Run a trade JSON document through the same path as a POST request and print
the response. A trade that already exists is reported as a conflict.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		tradeStore, err := storage.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer tradeStore.Close()

		notifier := notification.NewDiscordNotificationService(cfg.DiscordWebhookURL)
		handler := ingest.NewHandler(cfg, tradeStore, notifier, lg)

		resp := handler.Handle(cmd.Context(), ingest.Request{
			Method:    http.MethodPost,
			Body:      body,
			RequestID: uuid.NewString(),
		})

		fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", resp.StatusCode, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("trade not stored: %s", http.StatusText(resp.StatusCode))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
