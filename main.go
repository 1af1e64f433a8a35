package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"luna_chat/src"
	"luna_chat/src/chat"
	"luna_chat/src/conversation"
	"luna_chat/src/emotion"
	"luna_chat/src/keepalive"
	"luna_chat/src/llm"
	"luna_chat/src/logger"
	"luna_chat/src/persona"
	"luna_chat/src/server"
	"luna_chat/src/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found, using process environment")
	}

	config, err := src.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.InitLogger(config.LogConfig); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Personality
	loader := persona.NewLoader(config.PersonaConfig.PersonalityPath, config.PersonaConfig.PromptPath)
	if err := loader.Load(); err != nil {
		var loadErr *persona.LoadError
		if errors.As(err, &loadErr) {
			logger.Warn().Err(err).Str("path", loadErr.Path).Msg("Personality unavailable, running with fallback")
		} else {
			logger.Warn().Err(err).Msg("Personality unavailable, running with fallback")
		}
	}
	stats := loader.Stats()
	logger.Info().
		Str("name", stats.Name).
		Str("version", stats.Version).
		Strs("emotional_states", stats.EmotionalStates).
		Bool("fallback", stats.Fallback).
		Msg("Personality loaded")

	clock, err := persona.NewClock(config.PersonaConfig.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid timezone")
	}
	scope, err := emotion.ParseScope(config.PersonaConfig.StateScope)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid emotional state scope")
	}

	// Conversation context and optional state persistence
	var (
		repo   conversation.Repository
		states chat.StateStore
	)
	if config.ConversationConfig.RedisURL != "" {
		client, err := storage.Connect(ctx, config.ConversationConfig.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer client.Close()
		repo = conversation.NewRedisRepository(client, config.ConversationConfig.MaxMessages, config.ConversationConfig.TTL)
		states = storage.NewRedisStorage(client, 0)
		logger.Info().Msg("Using Redis conversation store")
	} else {
		repo = conversation.NewMemoryRepository(config.ConversationConfig.MaxMessages)
		logger.Info().Msg("Using in-memory conversation store")
	}
	conversations := conversation.NewService(repo, conversation.NewWindowStrategy(config.ConversationConfig.Window))

	// Remote model; without one every message is answered locally
	var completer llm.Completer
	chatModel, err := llm.NewChatModel(ctx, config.LLMConfig)
	if err == nil {
		completer, err = llm.NewResponder(ctx, chatModel,
			llm.WithTimeout(config.LLMConfig.Timeout),
			llm.WithRatePerMinute(config.LLMConfig.RatePerMinute),
			llm.WithModelName(config.LLMConfig.Model),
		)
	}
	if err != nil {
		completer = nil
		logger.Warn().Err(err).Str("provider", config.LLMConfig.Provider).Msg("Remote model unavailable, using fallback responses only")
	}

	var journalOpts []conversation.JournalOption
	if dir := config.ConversationConfig.JournalDir; dir != "" {
		journalOpts = append(journalOpts, conversation.WithArchive(conversation.NewJSONArchive(dir), config.ConversationConfig.Retention))
	}
	journal := conversation.NewJournal(config.ConversationConfig.JournalSize, journalOpts...)
	if n, err := journal.Restore(); err != nil {
		logger.Warn().Err(err).Msg("Failed to restore chat journal")
	} else if n > 0 {
		logger.Info().Int("entries", n).Msg("Chat journal restored")
	}

	opts := []chat.Option{
		chat.WithRegistry(emotion.NewRegistry(scope)),
		chat.WithJournal(journal),
		chat.WithClock(clock),
		chat.WithUserName(config.PersonaConfig.UserName),
		chat.WithModelName(config.LLMConfig.Model),
		chat.WithDirectExpressions(config.PersonaConfig.DirectExpression),
	}
	if states != nil {
		opts = append(opts, chat.WithStateStore(states))
	}
	engine := chat.NewEngine(loader, conversations, completer, opts...)

	if config.ServerConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(engine, config.ServerConfig)

	if config.ServerConfig.Environment == "production" {
		keepAlive := config.KeepAliveConfig
		if keepAlive.URL == "" {
			keepAlive.URL = "http://localhost:" + config.ServerConfig.Port
		}
		go keepalive.NewPinger(keepAlive).Run(ctx, 30*time.Second)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
