// Package di assembles the application object graph from configuration.
package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coolkid-chat/backend/internal/llm"
	"coolkid-chat/backend/internal/moderation"
	"coolkid-chat/backend/internal/service"
	"coolkid-chat/backend/internal/store"
	"coolkid-chat/backend/pkg/config"
	"coolkid-chat/backend/pkg/health"
	"coolkid-chat/backend/pkg/jwt"
	"coolkid-chat/backend/pkg/kv"
	"coolkid-chat/backend/pkg/logger"
	"coolkid-chat/backend/pkg/observability"
	"coolkid-chat/backend/pkg/secrets"
)

// Container holds all the dependencies for the application.
type Container struct {
	Config     *config.Config
	Logger     *logger.Logger
	KV         kv.Store
	Secrets    *secrets.Manager
	JWTService *jwt.Service

	Sessions   *store.ConversationStore
	Registry   *store.CharacterRegistry
	Users      *store.UserStore
	Moderation *moderation.Checker

	Provider   llm.Provider
	Metrics    *observability.Metrics
	Turns      *service.TurnService
	Chat       *service.ChatService
	Characters *service.CharacterService

	Health *health.Checker
}

// New builds the full object graph. The snapshot store driver comes from
// configuration; everything downstream is driver-agnostic.
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	kvStore, err := newKVStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	secretManager, err := secrets.NewManager(log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets: %w", err)
	}

	// The API key may live in Vault; the config value is the env fallback.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	apiKey := secretManager.GetSecretWithDefault(ctx, "groq.api.key", cfg.LLM.APIKey)
	cancel()

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	sessions := store.NewConversationStore(kvStore, log)
	registry := store.NewCharacterRegistry(kvStore, log)
	users := store.NewUserStore(kvStore, log)
	mod := moderation.NewChecker(moderation.Config{
		Enabled:          cfg.Moderation.Enabled,
		BannedWords:      cfg.Moderation.BannedWords,
		WarningThreshold: cfg.Moderation.WarningThreshold,
	}, kvStore, log)

	provider := llm.NewGroqClient(cfg.LLM.BaseURL, apiKey, cfg.LLM.Timeout)

	metrics, err := observability.NewMetrics()
	if err != nil {
		log.Warn("Metrics disabled", "error", err.Error())
		metrics = nil
	}

	turns := service.NewTurnService(provider, service.TurnServiceConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, metrics, log)

	characters := service.NewCharacterService(registry, sessions)
	chat := service.NewChatService(turns, mod, sessions, characters, log)

	checker := health.NewChecker(log, 30*time.Second)
	checker.RegisterStorageCheck(func() error {
		_, err := kvStore.Get("chat_history")
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return err
	})
	checker.RegisterProviderCheck(func() bool { return apiKey != "" })

	return &Container{
		Config:     cfg,
		Logger:     log,
		KV:         kvStore,
		Secrets:    secretManager,
		JWTService: jwtService,
		Sessions:   sessions,
		Registry:   registry,
		Users:      users,
		Moderation: mod,
		Provider:   provider,
		Metrics:    metrics,
		Turns:      turns,
		Chat:       chat,
		Characters: characters,
		Health:     checker,
	}, nil
}

// newKVStore selects the snapshot driver from configuration.
func newKVStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Driver {
	case "file":
		return kv.NewFileStore(cfg.Storage.DataDir)
	case "memory":
		return kv.NewMemoryStore(), nil
	case "redis":
		return kv.NewRedisStore(cfg.Storage.RedisAddr, cfg.Storage.RedisPass, cfg.Storage.RedisDB)
	case "postgres":
		return kv.NewPostgresStore(cfg.Storage.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// Close releases held resources, currently just the snapshot store.
func (c *Container) Close() error {
	return c.KV.Close()
}
