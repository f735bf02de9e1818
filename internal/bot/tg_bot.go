package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	"go.uber.org/zap"
)

// WebhookConfig switches the bot from long polling to webhook delivery when
// URL is set.
type WebhookConfig struct {
	URL    string
	Listen string
	Path   string
	Secret string
}

type TelegramBot struct {
	client      *telego.Bot
	logger      *zap.Logger
	maxFileSize int64
	webhook     WebhookConfig
}

func NewTelegramBot(token string, logger *zap.Logger, maxFileSize int64, webhook WebhookConfig) (Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telego bot: %w", err)
	}

	return &TelegramBot{
		client:      b,
		logger:      logger,
		maxFileSize: maxFileSize,
		webhook:     webhook,
	}, nil
}

func (tb *TelegramBot) Start(ctx context.Context, handler func(context.Context, telego.Update)) error {
	var (
		updates <-chan telego.Update
		err     error
	)
	if tb.webhook.URL != "" {
		updates, err = tb.startWebhook(ctx)
	} else {
		updates, err = tb.startLongPolling(ctx)
	}
	if err != nil {
		return err
	}

	tb.logger.Info("bot started receiving updates", zap.Bool("webhook", tb.webhook.URL != ""))
	return dispatch(ctx, updates, handler, tb.logger)
}

// dispatch runs handler for every update in its own goroutine and returns
// once updates closes or ctx is done and all started handlers have returned.
func dispatch(ctx context.Context, updates <-chan telego.Update, handler func(context.Context, telego.Update), logger *zap.Logger) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed, bot stopped")
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				handler(ctx, update)
			}()

		case <-ctx.Done():
			logger.Info("bot stopped by context cancellation, waiting for handlers")
			return ctx.Err()
		}
	}
}

func (tb *TelegramBot) startLongPolling(ctx context.Context) (<-chan telego.Update, error) {
	if err := tb.client.DeleteWebhook(ctx, &telego.DeleteWebhookParams{}); err != nil {
		tb.logger.Warn("failed to delete webhook before polling", zap.Error(err))
	}

	updates, err := tb.client.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{Timeout: 30})
	if err != nil {
		return nil, fmt.Errorf("failed to start long polling: %w", err)
	}
	return updates, nil
}

func (tb *TelegramBot) startWebhook(ctx context.Context) (<-chan telego.Update, error) {
	err := tb.client.SetWebhook(ctx, &telego.SetWebhookParams{
		URL:         tb.webhook.URL,
		SecretToken: tb.webhook.Secret,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	updates, err := tb.client.UpdatesViaWebhook(ctx,
		telego.WebhookHTTPServeMux(mux, "POST "+tb.webhook.Path, tb.webhook.Secret),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start webhook: %w", err)
	}

	srv := &http.Server{
		Addr:              tb.webhook.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tb.logger.Error("webhook server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			tb.logger.Warn("webhook server shutdown", zap.Error(err))
		}
	}()

	tb.logger.Info("webhook server listening",
		zap.String("addr", tb.webhook.Listen),
		zap.String("path", tb.webhook.Path),
	)
	return updates, nil
}

func (tb *TelegramBot) sendFileFromPath(
	ctx context.Context,
	chatID int64,
	filePath string,
	sender func(context.Context, telego.ChatID, telego.InputFile) (*telego.Message, error),
) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func(file *os.File) {
		if closeErr := file.Close(); closeErr != nil {
			tb.logger.Warn("failed to close file", zap.String("path", filePath), zap.Error(closeErr))
		}
	}(file)

	_, err = sender(ctx, telego.ChatID{ID: chatID}, telego.InputFile{File: file})
	if err != nil {
		return fmt.Errorf("failed to send file to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendPhoto(ctx context.Context, chatID int64, filePath, caption string) error {
	return tb.sendFileFromPath(ctx, chatID, filePath,
		func(ctx context.Context, id telego.ChatID, f telego.InputFile) (*telego.Message, error) {
			return tb.client.SendPhoto(ctx, &telego.SendPhotoParams{
				ChatID:  id,
				Photo:   f,
				Caption: caption,
			})
		},
	)
}

func (tb *TelegramBot) SendDocument(ctx context.Context, chatID int64, filePath, caption string) error {
	return tb.sendFileFromPath(ctx, chatID, filePath,
		func(ctx context.Context, id telego.ChatID, f telego.InputFile) (*telego.Message, error) {
			return tb.client.SendDocument(ctx, &telego.SendDocumentParams{
				ChatID:   id,
				Document: f,
				Caption:  caption,
			})
		},
	)
}

func (tb *TelegramBot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := tb.client.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendChatAction(ctx context.Context, chatID int64, action string) error {
	err := tb.client.SendChatAction(ctx, &telego.SendChatActionParams{
		ChatID: telego.ChatID{ID: chatID},
		Action: action,
	})
	if err != nil {
		return fmt.Errorf("failed to send chat action: %w", err)
	}
	return nil
}

func (tb *TelegramBot) GetFile(ctx context.Context, fileID string) (*File, error) {
	f, err := tb.client.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for ID %s: %w", fileID, err)
	}

	return &File{
		FileID:   f.FileID,
		UniqueID: f.FileUniqueID,
		FilePath: f.FilePath,
		FileSize: f.FileSize,
	}, nil
}

func (tb *TelegramBot) FileDownloadURL(filePath string) string {
	return fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", tb.client.Token(), filePath)
}

func (tb *TelegramBot) SendFileAuto(ctx context.Context, chatID int64, filePath, caption string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if stat.Size() <= tb.maxFileSize {
		return tb.SendPhoto(ctx, chatID, filePath, caption)
	}
	return tb.SendDocument(ctx, chatID, filePath, caption)
}
