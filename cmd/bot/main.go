package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smart-sa/smorti/config"
	"github.com/smart-sa/smorti/internal/delivery/cli"
	"github.com/smart-sa/smorti/internal/delivery/httpapi"
	"github.com/smart-sa/smorti/internal/delivery/telegram"
	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/internal/infrastructure/gemini"
	"github.com/smart-sa/smorti/internal/infrastructure/parser"
	"github.com/smart-sa/smorti/internal/infrastructure/storage"
	"github.com/smart-sa/smorti/internal/usecase"
	"github.com/smart-sa/smorti/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		logger.Fatal().Err(err).Msg("configuration failed")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	logger.Info().Msg("starting smorti")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// AI client
	aiRepo, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("gemini client failed")
	}

	// Sessions: Redis when configured, process memory otherwise.
	var chatRepo repository.ChatRepository
	if cfg.RedisURL != "" {
		chatRepo, err = storage.NewRedisChatRepository(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		logger.Info().Msg("sessions in redis")
	} else {
		chatRepo = storage.NewMemoryChatRepository()
		logger.Info().Msg("sessions in memory")
	}

	// Catalog
	productRepo := storage.NewMemoryProductRepository()
	products, err := parser.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		// No catalog is degraded, not fatal: the engine answers from facts
		// and safe fallbacks.
		logger.Error().Err(err).Str("path", cfg.CatalogPath).Msg("catalog load failed")
	} else {
		if err := productRepo.ReplaceAll(ctx, products); err != nil {
			logger.Error().Err(err).Msg("catalog store failed")
		}
		logger.Info().Int("products", len(products)).Msg("catalog loaded")
	}

	// Transcript log, optional.
	var transcript repository.TranscriptRepository
	if cfg.PostgresURL != "" {
		transcript, err = storage.NewPostgresTranscript(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Error().Err(err).Msg("postgres connect failed, transcripts disabled")
			transcript = nil
		}
	}

	uc := usecase.NewChatUseCase(aiRepo, chatRepo, productRepo, transcript, usecase.Options{
		ScreenDefault: cfg.ScreenDefault,
		RewriteTone:   cfg.RewriteTone,
	})

	// Deliveries: Telegram and HTTP when configured, otherwise a terminal
	// REPL so the engine is usable with nothing but an API key.
	ranServer := false

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, uc)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram bot failed")
		}
		go bot.Start(ctx)
		ranServer = true
	}

	var httpServer *httpapi.Server
	if cfg.HTTPAddr != "" {
		httpServer = httpapi.NewServer(uc, productRepo)
		go func() {
			if err := httpServer.Listen(cfg.HTTPAddr); err != nil {
				logger.Error().Err(err).Msg("http server stopped")
			}
		}()
		ranServer = true
	}

	if !ranServer {
		repl := cli.NewREPL(uc, os.Stdin, os.Stdout)
		if err := repl.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("repl stopped")
		}
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("shutting down")

	cancel()
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("http shutdown failed")
		}
	}
	logger.Info().Msg("stopped")
}
