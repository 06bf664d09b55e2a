// Package secrets resolves credentials from HashiCorp Vault with an
// environment-variable fallback, so local runs need nothing beyond .env.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"

	"coolkid-chat/backend/pkg/logger"
)

var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrNoVaultToken   = errors.New("no vault token provided")
	ErrNoVaultAddress = errors.New("no vault address provided")
)

// Config holds the Vault client settings, read from the environment.
type Config struct {
	Address     string
	Token       string
	Namespace   string
	SecretsPath string
	Timeout     time.Duration
	MaxRetries  int
	Enabled     bool
}

// Manager resolves secrets, caching values for a short window. When Vault
// is disabled only the environment is consulted.
type Manager struct {
	client   *vault.Client
	config   Config
	cache    map[string]string
	mu       sync.RWMutex
	log      *logger.Logger
	cacheTTL time.Duration
}

// NewManager builds a Manager from VAULT_* environment variables. Vault
// is opt-in: without VAULT_ENABLED=true the manager is env-only.
func NewManager(log *logger.Logger) (*Manager, error) {
	config := Config{
		Address:     os.Getenv("VAULT_ADDR"),
		Token:       os.Getenv("VAULT_TOKEN"),
		Namespace:   os.Getenv("VAULT_NAMESPACE"),
		SecretsPath: os.Getenv("VAULT_SECRETS_PATH"),
		Timeout:     10 * time.Second,
		MaxRetries:  3,
	}
	if enabled := os.Getenv("VAULT_ENABLED"); enabled != "" {
		config.Enabled = enabled == "true" || enabled == "1" || enabled == "yes"
	}

	m := &Manager{
		config:   config,
		cache:    make(map[string]string),
		log:      log,
		cacheTTL: 5 * time.Minute,
	}
	if !config.Enabled {
		return m, nil
	}

	if config.Address == "" {
		return nil, ErrNoVaultAddress
	}
	if config.Token == "" {
		return nil, ErrNoVaultToken
	}
	if config.SecretsPath == "" {
		config.SecretsPath = "coolkid-chat"
		m.config.SecretsPath = config.SecretsPath
	}

	vc := vault.DefaultConfig()
	vc.Address = config.Address
	vc.Timeout = config.Timeout
	vc.MaxRetries = config.MaxRetries

	client, err := vault.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(config.Token)
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}
	m.client = client

	go m.cleanupCache()
	return m, nil
}

// GetSecret resolves a key from Vault, falling back to the environment
// when Vault is disabled or does not hold the key.
func (m *Manager) GetSecret(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	cached, found := m.cache[key]
	m.mu.RUnlock()
	if found {
		return cached, nil
	}

	if !m.config.Enabled {
		return m.getFromEnvironment(key)
	}

	value, err := m.getFromVault(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			m.log.Warn("Secret not found in Vault, falling back to environment", "key", key)
			return m.getFromEnvironment(key)
		}
		return "", err
	}

	m.cacheSecret(key, value)
	return value, nil
}

// GetSecretWithDefault resolves a key, returning the default on any failure.
func (m *Manager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	value, err := m.GetSecret(ctx, key)
	if err != nil {
		return defaultValue
	}
	return value
}

func (m *Manager) getFromVault(ctx context.Context, key string) (string, error) {
	secret, err := m.client.KVv2("secret").Get(ctx, m.config.SecretsPath)
	if err != nil {
		m.log.Error("Failed to read secret from Vault",
			"path", m.config.SecretsPath,
			"error", err.Error(),
		)
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return "", ErrSecretNotFound
	}

	value, ok := secret.Data[key].(string)
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// getFromEnvironment maps a dotted or kebab-case key onto the matching
// environment variable.
func (m *Manager) getFromEnvironment(key string) (string, error) {
	envKey := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))

	value := os.Getenv(envKey)
	if value == "" {
		return "", ErrSecretNotFound
	}

	m.cacheSecret(key, value)
	return value, nil
}

func (m *Manager) cacheSecret(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
}

// cleanupCache clears the cache on an interval so rotated secrets are
// picked up without a restart.
func (m *Manager) cleanupCache() {
	ticker := time.NewTicker(m.cacheTTL)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		m.cache = make(map[string]string)
		m.mu.Unlock()
	}
}
