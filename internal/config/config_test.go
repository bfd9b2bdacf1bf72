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

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
app:
  name: course-be
  version: 1.0.0
  environment: test
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 30s
database:
  host: localhost
  port: 5432
  user: postgres
  password: postgres
  database: course_be
  sslmode: disable
rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
  vhost: /
  exchange: notifications
  exchange_type: direct
  queue: notification_jobs
  routing_key: notification.due
auth:
  jwt_secret: test-secret
  token_ttl: 24h
email:
  host: smtp.example.com
  port: 587
  from: noreply@example.com
queue:
  timezone: UTC
  reminder_lead: 24h
  late_grace: 1h
  weekly_cron: "0 10 * * 5"
  poll_interval: 5s
  completed_ttl: 24h
  failed_ttl: 168h
worker:
  concurrency: 2
  prefetch_count: 2
  shutdown_timeout: 30s
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "course-be", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "course_be", cfg.Database.Database)
	assert.Equal(t, "notifications", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 24*time.Hour, cfg.Queue.ReminderLead)
	assert.Equal(t, time.Hour, cfg.Queue.LateGrace)
	assert.Equal(t, "0 10 * * 5", cfg.Queue.WeeklyCron)
	assert.Equal(t, 2, cfg.Worker.Concurrency)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [not a map")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidateAPIConfig(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(writeConfig(t, validYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "bad server port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database host is required",
		},
		{
			name:    "missing rabbitmq exchange",
			mutate:  func(c *Config) { c.RabbitMQ.Exchange = "" },
			wantErr: "rabbitmq exchange name is required",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "auth jwt_secret is required",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Queue.Timezone = "Mars/Olympus" },
			wantErr: "invalid queue timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWorkerConfig(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(writeConfig(t, validYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			// zero concurrency falls back to the one-at-a-time default
			name:   "zero concurrency allowed",
			mutate: func(c *Config) { c.Worker.Concurrency = 0 },
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Worker.Concurrency = -1 },
			wantErr: "worker concurrency must not be negative",
		},
		{
			name:    "missing email host",
			mutate:  func(c *Config) { c.Email.Host = "" },
			wantErr: "email host is required",
		},
		{
			name:    "missing from address",
			mutate:  func(c *Config) { c.Email.From = "" },
			wantErr: "email from address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestQueueLocationDefaultsToUTC(t *testing.T) {
	var q QueueConfig
	loc, err := q.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
