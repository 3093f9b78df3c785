package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func missingPath(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "missing.yaml")
}

func TestLoadDefaults(t *testing.T) {
	path := missingPath(t)

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Listen)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownGracePeriod)
	assert.Equal(t, int64(4096), cfg.Server.MaxBodySize)
	assert.False(t, cfg.Server.DetailedErrors)
	assert.Zero(t, cfg.Server.RateLimit)
	assert.Equal(t, 20, cfg.Server.RateBurst)

	assert.Equal(t, 10*time.Second, cfg.Checks.Timeout)
	assert.Equal(t, "443", cfg.Checks.SSL.Port)
	assert.False(t, cfg.Checks.SSL.Strict)
	assert.Equal(t, 30, cfg.Checks.SSL.AlertDays)
	assert.Empty(t, cfg.Checks.DNS.Server)

	assert.Empty(t, cfg.Slack.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.Slack.RequestTimeout)
}

func TestLoadNilPathUsesDefaultLocation(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Listen)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":8080"
  detailedErrors: true
  rateLimit: 2.5
  readTimeout: 5s
checks:
  timeout: 3s
  ssl:
    port: "8443"
    strict: true
    alertDays: 14
  dns:
    server: "1.1.1.1:53"
slack:
  webhookURL: "https://hooks.slack.com/services/T000/B000/XXX"
`)

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.True(t, cfg.Server.DetailedErrors)
	assert.InDelta(t, 2.5, cfg.Server.RateLimit, 0.0001)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 3*time.Second, cfg.Checks.Timeout)
	assert.Equal(t, "8443", cfg.Checks.SSL.Port)
	assert.True(t, cfg.Checks.SSL.Strict)
	assert.Equal(t, 14, cfg.Checks.SSL.AlertDays)
	assert.Equal(t, "1.1.1.1:53", cfg.Checks.DNS.Server)
	assert.Equal(t, "https://hooks.slack.com/services/T000/B000/XXX", cfg.Slack.WebhookURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":8080"
checks:
  timeout: 3s
`)

	t.Setenv("SECDASH_SERVER_LISTEN", ":9090")
	t.Setenv("SECDASH_CHECKS_TIMEOUT", "7s")
	t.Setenv("SECDASH_SERVER_DETAILEDERRORS", "true")
	t.Setenv("SECDASH_CHECKS_SSL_ALERTDAYS", "7")

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, 7*time.Second, cfg.Checks.Timeout)
	assert.True(t, cfg.Server.DetailedErrors)
	assert.Equal(t, 7, cfg.Checks.SSL.AlertDays)
}

func TestLoadEnvOverridesCamelCaseFileKeys(t *testing.T) {
	path := writeConfig(t, `
server:
  detailedErrors: false
  maxBodySize: 4096
checks:
  ssl:
    alertDays: 30
slack:
  webhookURL: "https://hooks.slack.com/services/T000/B000/FILE"
`)

	t.Setenv("SECDASH_CHECKS_SSL_ALERTDAYS", "7")
	t.Setenv("SECDASH_SERVER_DETAILEDERRORS", "true")
	t.Setenv("SECDASH_SERVER_MAXBODYSIZE", "9999")
	t.Setenv("SECDASH_SLACK_WEBHOOKURL", "https://hooks.slack.com/services/T000/B000/ENV")

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Checks.SSL.AlertDays)
	assert.True(t, cfg.Server.DetailedErrors)
	assert.Equal(t, int64(9999), cfg.Server.MaxBodySize)
	assert.Equal(t, "https://hooks.slack.com/services/T000/B000/ENV", cfg.Slack.WebhookURL)
}

func TestEnvKey(t *testing.T) {
	mapKey := envKey(keyPaths(reflect.TypeOf(Config{}), ""))

	testCases := []struct {
		env  string
		want string
	}{
		{env: "SECDASH_SERVER_LISTEN", want: "server.listen"},
		{env: "SECDASH_SERVER_SHUTDOWNGRACEPERIOD", want: "server.shutdownGracePeriod"},
		{env: "SECDASH_CHECKS_SSL_ALERTDAYS", want: "checks.ssl.alertDays"},
		{env: "SECDASH_CHECKS_DNS_SERVER", want: "checks.dns.server"},
		{env: "SECDASH_SLACK_WEBHOOKURL", want: "slack.webhookURL"},
		{env: "SECDASH_UNKNOWN_SETTING", want: "unknown.setting"},
	}

	for _, tc := range testCases {
		t.Run(tc.env, func(t *testing.T) {
			key, value := mapKey(tc.env, "v")
			assert.Equal(t, tc.want, key)
			assert.Equal(t, "v", value)
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	_, err := Load(&path)
	require.ErrorIs(t, err, ErrConfigFileLoad)
}

func TestLoadInvalidValue(t *testing.T) {
	path := writeConfig(t, `
checks:
  timeout: not-a-duration
`)

	_, err := Load(&path)
	require.ErrorIs(t, err, ErrConfigUnmarshal)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty listen", mutate: func(c *Config) { c.Server.Listen = "" }},
		{name: "zero body size", mutate: func(c *Config) { c.Server.MaxBodySize = 0 }},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimit = -1 }},
		{name: "rate limit without burst", mutate: func(c *Config) { c.Server.RateLimit = 1; c.Server.RateBurst = 0 }},
		{name: "zero check timeout", mutate: func(c *Config) { c.Checks.Timeout = 0 }},
		{name: "empty ssl port", mutate: func(c *Config) { c.Checks.SSL.Port = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := missingPath(t)

			cfg, err := Load(&path)
			require.NoError(t, err)

			tc.mutate(cfg)

			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
