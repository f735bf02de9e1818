package mobile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"textoimagen/internal/bot"
	"textoimagen/internal/files"
	"textoimagen/internal/handlers"
	"textoimagen/internal/image"
	"textoimagen/internal/services"
	"textoimagen/internal/storage"
)

const (
	maxPhotoSize    = 10 * 1024 * 1024
	downloadTimeout = 30 * time.Second
	replyCaption    = "@textoimagenbot"
)

// BotControl starts and stops the bot from a gomobile host app. It always
// uses long polling.
type BotControl struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	logger *zap.Logger
}

func NewBotControl() *BotControl {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return &BotControl{logger: logger}
}

func (bc *BotControl) StartBot(token string, fontsDir string, tempDir string) string {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.cancel != nil {
		return "Bot already started"
	}

	botService, err := bot.NewTelegramBot(token, bc.logger, maxPhotoSize, bot.WebhookConfig{})
	if err != nil {
		return fmt.Sprintf("Error creating bot: %v", err)
	}

	fileManager, err := files.NewTelegramFileManager(botService, tempDir, downloadTimeout, bc.logger)
	if err != nil {
		return fmt.Sprintf("Error creating file manager: %v", err)
	}

	imageService := services.NewImageService(
		services.DefaultRenderConfig(),
		files.NewDirFontLoader(fontsDir),
		&image.Processor{},
		image.NewTextRenderer(),
		bc.logger,
	)

	captionHandler := handlers.NewCaptionHandler(
		imageService,
		botService,
		fileManager,
		storage.NewRenderStateStore(),
		bc.logger,
		handlers.Options{ReplyCaption: replyCaption},
	)

	ctx, cancel := context.WithCancel(context.Background())
	bc.cancel = cancel

	go func() {
		bc.logger.Info("bot goroutine started")
		if err := botService.Start(ctx, captionHandler.HandleUpdate); err != nil && ctx.Err() == nil {
			bc.logger.Error("bot stopped", zap.Error(err))
			bc.mu.Lock()
			cancel()
			bc.cancel = nil
			bc.mu.Unlock()
		}
	}()

	return "Bot started successfully"
}

func (bc *BotControl) StopBot() {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.cancel != nil {
		bc.cancel()
		bc.cancel = nil
		bc.logger.Info("bot stopped by user")
	}
}
