package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned when the bot token is not configured
var ErrMissingToken = errors.New("BOT_TOKEN is not set")

type Config struct {
	// Telegram Bot
	BotToken     string
	AdminChatID  int64 // receives startup and crash notices, 0 disables
	OwnerContact string

	// Registry scraper
	ScrapeBaseURL    string
	ScrapeTimeout    time.Duration
	CloudflareBypass bool
	OwnerPrefix      string

	// Transport
	HTTPAddr     string
	WebhookURL   string // polling is used when empty
	PollTimeout  int    // seconds
	RestartDelay time.Duration

	Debug bool
}

// LoadEnv loads a .env file into the process environment. A missing file is not an error.
func LoadEnv(path string) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		slog.Debug("no env file", "path", path)
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Warn("failed to load env file", "path", path, "err", err)
	}
}

// Bind registers defaults and environment variable names on v
func Bind(v *viper.Viper) {
	v.SetDefault("scrape_base_url", "https://vahanx.in")
	v.SetDefault("scrape_timeout", 10*time.Second)
	v.SetDefault("scrape_cloudflare_bypass", true)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("poll_timeout", 60)
	v.SetDefault("restart_delay", 5*time.Second)
	v.SetDefault("debug", false)

	v.BindEnv("bot_token", "BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("admin_chat_id", "ADMIN_CHAT_ID", "AUTHORIZED_CHAT_ID")
	v.BindEnv("owner_contact", "OWNER_CONTACT")
	v.BindEnv("owner_prefix", "OWNER_PREFIX")
	v.BindEnv("scrape_base_url", "SCRAPE_BASE_URL")
	v.BindEnv("scrape_timeout", "SCRAPE_TIMEOUT")
	v.BindEnv("scrape_cloudflare_bypass", "SCRAPE_CLOUDFLARE_BYPASS")
	v.BindEnv("http_addr", "HTTP_ADDR")
	v.BindEnv("webhook_url", "WEBHOOK_URL")
	v.BindEnv("poll_timeout", "POLL_TIMEOUT")
	v.BindEnv("restart_delay", "RESTART_DELAY")
	v.BindEnv("debug", "DEBUG")
}

// LoadConfig reads the configuration from v. Call Bind first.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		BotToken:         strings.TrimSpace(v.GetString("bot_token")),
		OwnerContact:     v.GetString("owner_contact"),
		OwnerPrefix:      v.GetString("owner_prefix"),
		ScrapeBaseURL:    strings.TrimRight(v.GetString("scrape_base_url"), "/"),
		ScrapeTimeout:    v.GetDuration("scrape_timeout"),
		CloudflareBypass: v.GetBool("scrape_cloudflare_bypass"),
		HTTPAddr:         v.GetString("http_addr"),
		WebhookURL:       v.GetString("webhook_url"),
		PollTimeout:      v.GetInt("poll_timeout"),
		RestartDelay:     v.GetDuration("restart_delay"),
		Debug:            v.GetBool("debug"),
	}

	if raw := strings.TrimSpace(v.GetString("admin_chat_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID %q: %w", raw, err)
		}
		cfg.AdminChatID = id
	}

	if cfg.ScrapeTimeout <= 0 {
		return nil, fmt.Errorf("invalid SCRAPE_TIMEOUT %q", v.GetString("scrape_timeout"))
	}

	return cfg, nil
}

// Validate checks the settings needed to run the bot
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}
	if c.WebhookURL != "" && !strings.HasPrefix(c.WebhookURL, "https://") {
		return fmt.Errorf("WEBHOOK_URL must be https: %q", c.WebhookURL)
	}
	return nil
}
