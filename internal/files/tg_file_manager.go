package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"textoimagen/internal/bot"
)

const maxErrorBody = 4 << 10

type telegramFileManager struct {
	client     bot.Bot
	httpClient *http.Client
	tempDir    string
	logger     *zap.Logger
}

func NewTelegramFileManager(client bot.Bot, tempDir string, timeout time.Duration, logger *zap.Logger) (FileManager, error) {
	if tempDir == "" {
		tempDir = "temp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return &telegramFileManager{
		client:     client,
		httpClient: &http.Client{Timeout: timeout},
		tempDir:    tempDir,
		logger:     logger,
	}, nil
}

func (fm *telegramFileManager) DownloadToTemp(ctx context.Context, fileID string) (string, func(), error) {
	tf, err := fm.client.GetFile(ctx, fileID)
	if err != nil {
		return "", nil, fmt.Errorf("GetFile error: %w", err)
	}
	if tf == nil || tf.FilePath == "" {
		return "", nil, fmt.Errorf("invalid file info from telegram for id %s", fileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fm.client.FileDownloadURL(tf.FilePath), nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := fm.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", nil, fmt.Errorf("download failed: status %s, body: %s", resp.Status, string(body))
	}

	out, err := os.CreateTemp(fm.tempDir, tempPattern(tf))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create local file: %w", err)
	}
	localName := out.Name()

	_, err = io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fm.Remove(localName)
		return "", nil, fmt.Errorf("failed to save downloaded file: %w", err)
	}

	cleanup := func() {
		fm.Remove(localName)
	}

	return localName, cleanup, nil
}

func (fm *telegramFileManager) Remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fm.logger.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}

// tempPattern keeps the extension Telegram reports. The same file forwarded
// to several chats shares its unique id, so every download gets a random
// suffix and, through it, its own "edited-" output name.
func tempPattern(f *bot.File) string {
	ext := filepath.Ext(f.FilePath)
	prefix := f.UniqueID
	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(f.FilePath), ext)
	}
	return prefix + "-*" + ext
}
