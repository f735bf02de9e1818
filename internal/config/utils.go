package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrMissingToken = errors.New("TOKEN environment variable is required")

// Load builds the configuration from the optional CONFIG_FILE yaml document
// and the environment, in that order. Environment values win.
func Load(logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.BotToken = getEnv(logger, "TOKEN", cfg.BotToken, parseString)
	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}

	cfg.TempDir = getEnv(logger, "TEMP_DIR", cfg.TempDir, parseString)
	cfg.FontsDir = getEnv(logger, "FONTS_DIR", cfg.FontsDir, parseString)
	cfg.MaxFileSize = getEnv(logger, "MAX_FILE_SIZE", cfg.MaxFileSize, parseInt)
	cfg.DownloadTimeout = getEnv(logger, "DOWNLOAD_TIMEOUT", cfg.DownloadTimeout, time.ParseDuration)
	cfg.AdminChatID = getEnv(logger, "ADMIN_CHAT_ID", cfg.AdminChatID, parseInt)
	cfg.ReplyCaption = getEnv(logger, "REPLY_CAPTION", cfg.ReplyCaption, parseString)
	cfg.Debug = getEnv(logger, "DEBUG", cfg.Debug, strconv.ParseBool)

	cfg.Render.HeaderFont = getEnv(logger, "HEADER_FONT", cfg.Render.HeaderFont, parseString)
	cfg.Render.FooterFont = getEnv(logger, "FOOTER_FONT", cfg.Render.FooterFont, parseString)
	cfg.Render.FooterText = getEnv(logger, "FOOTER_TEXT", cfg.Render.FooterText, parseString)
	cfg.Render.Padding = getEnv(logger, "IMAGE_PADDING", cfg.Render.Padding, strconv.Atoi)
	cfg.Render.MaxImageWidth = getEnv(logger, "MAX_IMAGE_WIDTH", cfg.Render.MaxImageWidth, strconv.Atoi)
	cfg.Render.MaxImagePixels = getEnv(logger, "MAX_IMAGE_PIXELS", cfg.Render.MaxImagePixels, parseInt)

	cfg.Webhook.URL = getEnv(logger, "WEBHOOK_URL", cfg.Webhook.URL, parseString)
	cfg.Webhook.Listen = getEnv(logger, "WEBHOOK_LISTEN", cfg.Webhook.Listen, parseString)
	cfg.Webhook.Path = getEnv(logger, "WEBHOOK_PATH", cfg.Webhook.Path, parseString)
	cfg.Webhook.Secret = getEnv(logger, "WEBHOOK_SECRET", cfg.Webhook.Secret, parseString)

	return cfg, nil
}

// Logger builds the production logger, or the development one when Debug is
// set.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv[T any](logger *zap.Logger, key string, defaultValue T, parser func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	parsed, err := parser(val)
	if err != nil {
		logger.Warn("invalid config value, using default",
			zap.String("key", key),
			zap.String("value", val),
			zap.Any("default", defaultValue),
		)
		return defaultValue
	}

	return parsed
}

func parseString(val string) (string, error) {
	return val, nil
}

func parseInt(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}
