package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"textoimagen/internal/bot"
	"textoimagen/internal/config"
	"textoimagen/internal/files"
	"textoimagen/internal/handlers"
	"textoimagen/internal/image"
	"textoimagen/internal/services"
	"textoimagen/internal/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewExample()
	}

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	if configured, err := cfg.Logger(); err == nil {
		logger = configured
	} else {
		logger.Warn("using default logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	botService, err := bot.NewTelegramBot(cfg.BotToken, logger, cfg.MaxFileSize, cfg.WebhookConfig())
	if err != nil {
		logger.Fatal("create bot", zap.Error(err))
	}

	fileManager, err := files.NewTelegramFileManager(
		botService,
		cfg.TempDir,
		cfg.DownloadTimeout,
		logger,
	)
	if err != nil {
		logger.Fatal("create file manager", zap.Error(err))
	}

	imageService := services.NewImageService(
		cfg.RenderConfig(),
		files.NewDirFontLoader(cfg.FontsDir),
		&image.Processor{},
		image.NewTextRenderer(),
		logger,
	)

	captionHandler := handlers.NewCaptionHandler(
		imageService,
		botService,
		fileManager,
		storage.NewRenderStateStore(),
		logger,
		cfg.HandlerOptions(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := botService.Start(ctx, captionHandler.HandleUpdate); err != nil && ctx.Err() == nil {
		logger.Error("bot stopped", zap.Error(err))
	}

	logger.Info("shutting down")
}
