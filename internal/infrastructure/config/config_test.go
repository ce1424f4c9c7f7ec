package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalYAML = `
discord:
  token: test-token
  app_id: "12345"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Discord.Token)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 10000, cfg.Mirror.CorrelationCapacity)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, `
discord:
  token: test-token
  app_id: "12345"
  guild_id: "67890"
server:
  port: 9090
storage:
  type: sqlite
  sqlite:
    path: /tmp/times.db
mirror:
  correlation_capacity: 500
logging:
  level: debug
  format: text
`))
	require.NoError(t, err)

	assert.Equal(t, "67890", cfg.Discord.GuildID)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/times.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, 500, cfg.Mirror.CorrelationCapacity)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvExpansionInFile(t *testing.T) {
	t.Setenv("TEST_TIMES_TOKEN", "expanded-token")

	cfg, err := Load(writeConfigFile(t, `
discord:
  token: ${TEST_TIMES_TOKEN}
  app_id: "12345"
`))
	require.NoError(t, err)
	assert.Equal(t, "expanded-token", cfg.Discord.Token)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MIRROR_CORRELATION_CAPACITY", "42")

	cfg, err := Load(writeConfigFile(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 42, cfg.Mirror.CorrelationCapacity)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("DISCORD_APP_ID", "12345")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing token", `
discord:
  app_id: "12345"
`},
		{"missing app id", `
discord:
  token: test-token
`},
		{"bad log level", minimalYAML + `
logging:
  level: verbose
`},
		{"bad storage type", minimalYAML + `
storage:
  type: dynamo
`},
		{"mysql without host", minimalYAML + `
storage:
  type: mysql
  mysql:
    primary:
      database: times
      username: times
      password: secret
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestManager_TryReload_ReloadableChange(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	m := NewManager(path, cfg)
	var reloaded *Config
	m.OnReload(func(c *Config) { reloaded = c })

	require.NoError(t, os.WriteFile(path, []byte(minimalYAML+`
logging:
  level: debug
`), 0o600))

	require.NoError(t, m.TryReload())
	assert.Equal(t, "debug", m.Current().Logging.Level)
	require.NotNil(t, reloaded)
	assert.Equal(t, "debug", reloaded.Logging.Level)
}

func TestManager_TryReload_StaticChangeRejected(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	m := NewManager(path, cfg)

	require.NoError(t, os.WriteFile(path, []byte(minimalYAML+`
server:
  port: 9999
`), 0o600))

	err = m.TryReload()
	assert.ErrorIs(t, err, ErrRequiresRestart)
	assert.Equal(t, 8080, m.Current().Server.Port, "rejected reload must not touch the running config")
}

func TestManager_TryReload_BrokenFileKeepsCurrent(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	m := NewManager(path, cfg)

	require.NoError(t, os.WriteFile(path, []byte("discord: [not a mapping"), 0o600))

	assert.Error(t, m.TryReload())
	assert.Equal(t, "test-token", m.Current().Discord.Token)
}
