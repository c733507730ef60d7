package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
# comment
database:
  host: "db.local"
  port: 5433
  user: "pos"
  password: "secret"
  database: "pos"

rabbitmq:
  host: "mq.local"
  vhost: "/pos"

terminal:
  operator: "till-7"
  stored_order_ttl_minutes: 45
  onboarding_credit: 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "pos", cfg.Database.Database)
	assert.Equal(t, "mq.local", cfg.RabbitMQ.Host)
	assert.Equal(t, "/pos", cfg.RabbitMQ.VHost)
	assert.Equal(t, 5672, cfg.RabbitMQ.Port, "unset keys keep defaults")
	assert.Equal(t, "till-7", cfg.Terminal.Operator)
	assert.Equal(t, 45*time.Minute, cfg.Terminal.StoredOrderTTL)
	assert.Equal(t, 15.0, cfg.Terminal.OnboardingCredit)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  host: "db.local"
  database: "pos"
`)
	t.Setenv("POS_DB_HOST", "other.host")
	t.Setenv("POS_DB_PORT", "6543")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
}

func TestMissingFileWithEnv(t *testing.T) {
	t.Setenv("POS_DB_NAME", "pos")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "pos", cfg.Database.Database)
	assert.Equal(t, 30*time.Minute, cfg.Terminal.StoredOrderTTL)
}

func TestDatabaseNameRequired(t *testing.T) {
	t.Setenv("POS_DB_NAME", "")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
