package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sleepcountdown/config"
	"sleepcountdown/internal/bot"
	"sleepcountdown/internal/logging"
)

const (
	defaultConfigPath = "bot-config.yaml"
	shutdownTimeout   = 5 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file (.yaml or .json)")
	useEnv := flag.Bool("env", false, "Load configuration from environment variables")
	flag.Parse()

	var cfg *config.BotConfig
	var err error
	if *useEnv {
		cfg, err = config.LoadBotConfigFromEnv()
	} else {
		cfg, err = config.LoadBotConfig(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.LoggerConfig{
		Format: cfg.Logging.Format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})

	logger.Info("Configuration loaded",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"webhook_url", cfg.Telegram.WebhookURL,
		"api_url", cfg.API.BaseURL,
		"profile_id", cfg.API.ProfileID,
		"allowed_users", len(cfg.Telegram.AllowedUsers),
	)

	telegramBot, err := bot.NewBot(cfg, logger)
	if err != nil {
		logger.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	if err := telegramBot.SetWebhook(); err != nil {
		logger.Error("Failed to set webhook", "error", err)
		os.Exit(1)
	}

	router := bot.NewRouter(bot.RouterConfig{
		Bot:           telegramBot,
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down bot")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}

	logger.Info("Bot stopped")
}
