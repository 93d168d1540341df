package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/vignesh-goutham/tradelog/pkg/config"
	"github.com/vignesh-goutham/tradelog/pkg/ingest"
	"github.com/vignesh-goutham/tradelog/pkg/logger"
	"github.com/vignesh-goutham/tradelog/pkg/notification"
	"github.com/vignesh-goutham/tradelog/pkg/storage"
)

var handler *ingest.Handler

func init() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lg := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// Built once per container and reused across warm invocations
	tradeStore, err := storage.Open(context.Background(), cfg)
	if err != nil {
		lg.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open trade store")
	}

	notifier := notification.NewDiscordNotificationService(cfg.DiscordWebhookURL)

	handler = ingest.NewHandler(cfg, tradeStore, notifier, lg)

	lg.Info().
		Str("table", cfg.TableName).
		Str("backend", cfg.StoreBackend).
		Bool("notifications", notifier.Enabled()).
		Msg("Trade logger initialized")
}

func main() {
	lambda.Start(handler.HandleLambda)
}
