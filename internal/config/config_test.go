package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: "9090"
database:
  driver: SQLite
  sqlite_path: ":memory:"
jwt:
  secret: file-secret
provider:
  base_url: http://waha.local:3000
  api_key: file-key
admin:
  email: "  Admin@Example.com "
  password: changeme
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "default", cfg.Provider.Session)
	assert.Equal(t, "60s", cfg.Provider.GroupsCacheTTL)
	assert.Equal(t, "1h", cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 5, cfg.RateLimit.LoginBurst)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_MODE", "production")
	t.Setenv("PROVIDER_SESSION", "courses")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "courses", cfg.Provider.Session)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PROVIDER_BASE_URL", "http://localhost:3000")
	t.Setenv("PROVIDER_API_KEY", "k")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "coursedesk.db", cfg.Database.SQLitePath)
}

const noSecretYAML = `
database:
  driver: sqlite
provider:
  base_url: http://waha.local:3000
  api_key: k
`

const noAPIKeyYAML = `
database:
  driver: sqlite
jwt:
  secret: s
provider:
  base_url: http://waha.local:3000
`

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{"missing secret", noSecretYAML, nil, "JWT secret is required"},
		{"missing api key", noAPIKeyYAML, nil, "provider api_key is required"},
		{"unknown driver", sampleYAML, map[string]string{"DB_DRIVER": "oracle"}, "unsupported database driver"},
		{"postgres without url", sampleYAML, map[string]string{"DB_DRIVER": "postgres"}, "database url is required"},
		{"bad ttl", sampleYAML, map[string]string{"PROVIDER_GROUPS_CACHE_TTL": "soon"}, "groups_cache_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PROVIDER_API_KEY", "k")

	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "0s", cfg.Provider.Timeout, "provider calls carry no client timeout by default")
}
