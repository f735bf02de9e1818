package config

import (
	"time"

	"textoimagen/internal/bot"
	"textoimagen/internal/handlers"
	"textoimagen/internal/services"
)

type Config struct {
	BotToken        string        `yaml:"bot_token"`
	TempDir         string        `yaml:"temp_dir"`
	FontsDir        string        `yaml:"fonts_dir"`
	MaxFileSize     int64         `yaml:"max_file_size"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	AdminChatID     int64         `yaml:"admin_chat_id"`
	ReplyCaption    string        `yaml:"reply_caption"`
	Render          RenderConfig  `yaml:"render"`
	Webhook         WebhookConfig `yaml:"webhook"`
	Debug           bool          `yaml:"debug"`
}

type RenderConfig struct {
	HeaderFont     string `yaml:"header_font"`
	FooterFont     string `yaml:"footer_font"`
	FooterText     string `yaml:"footer_text"`
	Padding        int    `yaml:"padding"`
	MaxImageWidth  int    `yaml:"max_image_width"`
	MaxImagePixels int64  `yaml:"max_image_pixels"`
}

type WebhookConfig struct {
	URL    string `yaml:"url"`
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
	Secret string `yaml:"secret"`
}

func Default() *Config {
	r := services.DefaultRenderConfig()
	return &Config{
		TempDir:         "./temp",
		FontsDir:        "./fonts",
		MaxFileSize:     10 * 1024 * 1024,
		DownloadTimeout: 30 * time.Second,
		ReplyCaption:    "@textoimagenbot",
		Render: RenderConfig{
			HeaderFont:     r.HeaderFont,
			FooterFont:     r.FooterFont,
			FooterText:     r.FooterText,
			Padding:        r.Padding,
			MaxImagePixels: r.MaxImagePixels,
		},
		Webhook: WebhookConfig{
			Listen: ":8080",
			Path:   "/bot",
		},
	}
}

func (c *Config) RenderConfig() services.RenderConfig {
	return services.RenderConfig{
		HeaderFont:     c.Render.HeaderFont,
		FooterFont:     c.Render.FooterFont,
		FooterText:     c.Render.FooterText,
		Padding:        c.Render.Padding,
		MaxImageWidth:  c.Render.MaxImageWidth,
		MaxImagePixels: c.Render.MaxImagePixels,
	}
}

func (c *Config) WebhookConfig() bot.WebhookConfig {
	return bot.WebhookConfig{
		URL:    c.Webhook.URL,
		Listen: c.Webhook.Listen,
		Path:   c.Webhook.Path,
		Secret: c.Webhook.Secret,
	}
}

func (c *Config) HandlerOptions() handlers.Options {
	return handlers.Options{
		ReplyCaption: c.ReplyCaption,
		AdminChatID:  c.AdminChatID,
	}
}
