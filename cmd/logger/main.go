package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"

	"github.com/zimpower/trade-logger/configs"
	"github.com/zimpower/trade-logger/internal/enrich"
	"github.com/zimpower/trade-logger/internal/extract"
	"github.com/zimpower/trade-logger/internal/feed"
	"github.com/zimpower/trade-logger/internal/ingest"
	"github.com/zimpower/trade-logger/internal/publish"
	"github.com/zimpower/trade-logger/internal/rates"
	"github.com/zimpower/trade-logger/internal/storage"
)

func main() {
	appConfig := configs.AppLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel(appConfig.LogLevel),
	}))

	db, err := gorm.Open(clickhouse.Open(appConfig.DBDSN), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	tradeStore := storage.NewGormTradeStore(db)

	feedClient := feed.NewRSSClient(appConfig.Feed.URL, appConfig.Feed.FetchTimeout, feedLogger(appConfig.LogLevel))

	quoteSource := rates.NewHTTPSource(appConfig.Rates.URL, appConfig.Rates.RequestsPerSecond)
	rateCache := rates.NewCache(quoteSource, appConfig.Rates.TTL, logger)

	var publisher ingest.Publisher
	if appConfig.Kafka.Broker != "" {
		writer := publish.NewWriter(appConfig.Kafka.Broker, appConfig.Kafka.Topic)
		defer writer.Close()
		publisher = publish.NewPublisher(writer, logger)
		logger.Info("Kafka publishing enabled",
			"broker", appConfig.Kafka.Broker, "topic", appConfig.Kafka.Topic)
	}

	loop := ingest.NewLoop(
		feedClient,
		extract.New(logger),
		enrich.New(rateCache, logger),
		tradeStore,
		publisher,
		ingest.Config{PollInterval: appConfig.Feed.PollInterval},
		logger,
	)

	// Run with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Trade logger started")

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Ingestion loop stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Trade logger shutdown complete")
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func feedLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		logger.SetLevel(parsed)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
