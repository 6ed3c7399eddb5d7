package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vahan-rc-bot/bot"
	"vahan-rc-bot/config"
	"vahan-rc-bot/internal/handlers"
	"vahan-rc-bot/internal/scraper"
	"vahan-rc-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the HTTP endpoints",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("config loaded", "registry", cfg.ScrapeBaseURL, "webhook", cfg.WebhookURL != "")

	// Create application context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lookup := initLookup(cfg)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("init telegram bot: %w", err)
	}
	api.Debug = false
	slog.Info("authorized on account", "username", api.Self.UserName)

	b := bot.New(api, lookup, bot.NewNotifier(api, cfg.AdminChatID), bot.Config{
		OwnerContact: cfg.OwnerContact,
		RestartDelay: cfg.RestartDelay,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HandleHealth)
	mux.HandleFunc("/api/lookup", handlers.NewLookupHandler(lookup).HandleLookup)

	var src bot.UpdateSource
	var stopSource func()
	if cfg.WebhookURL != "" {
		webhook := bot.NewWebhookSource(100)
		path := webhookPath(cfg.BotToken)
		mux.Handle(path, handlers.NewWebhookHandler(api, webhook))

		if err := registerWebhook(api, strings.TrimRight(cfg.WebhookURL, "/")+path); err != nil {
			return err
		}
		src = webhook
		stopSource = webhook.Close
	} else {
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			slog.Warn("failed to delete webhook", "err", err)
		}
		polling := bot.NewPollingSource(api, cfg.PollTimeout)
		src = polling
		stopSource = polling.Stop
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			cancel()
		}
	}()

	// The loop outlives the signal so updates already accepted are still answered.
	botCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()
	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		b.Serve(botCtx, src)
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutdown signal received, initiating graceful shutdown")

	// No webhook call may be acknowledged once the loop is gone.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "err", err)
	}

	stopSource()
	select {
	case <-botDone:
	case <-time.After(drainTimeout(cfg)):
		slog.Warn("update loop did not drain in time")
		stopBot()
		<-botDone
	}

	slog.Info("stopped gracefully")

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

// drainTimeout bounds how long queued updates may take after the source stops.
// A long poll in flight only returns after PollTimeout.
func drainTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.PollTimeout)*time.Second + cfg.ScrapeTimeout + 5*time.Second
}

// initLookup wires the scraper into the lookup service
func initLookup(cfg *config.Config) *services.LookupService {
	client := scraper.New(scraper.Options{
		BaseURL:          cfg.ScrapeBaseURL,
		Timeout:          cfg.ScrapeTimeout,
		OwnerPrefix:      cfg.OwnerPrefix,
		CloudflareBypass: cfg.CloudflareBypass,
	})
	return services.NewLookupService(client)
}

// webhookPath derives an unguessable path from the token
func webhookPath(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "/telegram/webhook/" + hex.EncodeToString(sum[:16])
}

func registerWebhook(api *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}
	slog.Info("webhook registered")
	return nil
}
