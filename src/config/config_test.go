package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "linkup", cfg.MongoDB)
	assert.Equal(t, "mongo", cfg.Store)
	assert.Equal(t, "memory", cfg.MailQueue)
	assert.Equal(t, 5, cfg.MailMaxAttempts)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("MAIL_WORKERS", "7")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 7, cfg.MailWorkers)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DB: fromfile\nCLIENT_URL: https://linkup.example\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CLIENT_URL", "https://env.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fromfile", cfg.MongoDB)
	assert.Equal(t, "https://env.example", cfg.ClientURL)
}

func TestLoadRejectsBadConfigFile(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "linkup.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("JWT_SECRET: [unterminated\n"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"malformed", malformed},
		{"missing", filepath.Join(t.TempDir(), "absent.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", tt.path)

			_, err := Load()
			assert.ErrorContains(t, err, "read config file")
		})
	}
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorIs(t, err, ErrDefaultSecret)

	t.Setenv("JWT_SECRET", "dev-secret-change-me")
	_, err = Load()
	assert.ErrorIs(t, err, ErrDefaultSecret)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.JWTSecret)
}
