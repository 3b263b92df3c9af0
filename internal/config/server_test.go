package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadServerConfigFromFile(t *testing.T) {
	content := "listen_addr: \":9090\"\n" +
		"rate_limit: 5\n" +
		"rate_window: 30s\n" +
		"redis_addr: \"localhost:6379\"\n" +
		"cache_ttl: 1m\n" +
		"log_level: debug\n"

	tmpfile, err := os.CreateTemp("", "server_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := LoadServerConfig(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateWindow)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout)
}

func TestLoadServerConfigRejectsInvalid(t *testing.T) {
	cases := []string{
		"listen_addr: \"\"\n",
		"rate_limit: 0\n",
		"rate_window: -1s\n",
		"read_timeout: 0s\n",
		"shutdown_timeout: -5s\n",
	}
	for _, content := range cases {
		tmpfile, err := os.CreateTemp("", "server_*.yaml")
		require.NoError(t, err)
		_, err = tmpfile.WriteString(content)
		require.NoError(t, err)
		require.NoError(t, tmpfile.Close())

		_, err = LoadServerConfig(tmpfile.Name())
		assert.Error(t, err, "config %q should be rejected", content)
		os.Remove(tmpfile.Name())
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	_, err := LoadServerConfig("/nonexistent/server.yaml")
	require.Error(t, err)
}
