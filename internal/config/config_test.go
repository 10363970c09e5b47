package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Auth.SessionSecret = testSecret
	cfg.MySQL.User = "app"
	cfg.Storage.ImageKit.PublicKey = "public_test"
	cfg.Storage.ImageKit.PrivateKey = "private_test"
	return cfg
}

func TestDefaultConfigCarriesNoSecrets(t *testing.T) {
	cfg := defaultConfig()

	assert.Empty(t, cfg.Auth.SessionSecret)
	assert.Empty(t, cfg.MySQL.User)
	assert.Empty(t, cfg.MySQL.Password)
	assert.Empty(t, cfg.Storage.ImageKit.PrivateKey)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Error(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.Auth.SessionSecret = "short" },
			wantErr: "session_secret",
		},
		{
			name:    "missing mysql user",
			mutate:  func(c *Config) { c.MySQL.User = "" },
			wantErr: "mysql.host",
		},
		{
			name: "dsn replaces mysql fields",
			mutate: func(c *Config) {
				c.MySQL.User = ""
				c.MySQL.DSN = "app:pw@tcp(db:3306)/vidshare"
			},
		},
		{
			name:    "imagekit without private key",
			mutate:  func(c *Config) { c.Storage.ImageKit.PrivateKey = "" },
			wantErr: "storage.imagekit",
		},
		{
			name: "s3 without bucket",
			mutate: func(c *Config) {
				c.Storage.Provider = StorageS3
				c.Storage.S3 = S3Config{Region: "us-east-1", AccessKey: "a", SecretKey: "b"}
			},
			wantErr: "storage.s3",
		},
		{
			name:   "storage disabled",
			mutate: func(c *Config) { c.Storage = StorageConfig{Provider: StorageNone} },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Storage.Provider = "ftp" },
			wantErr: "unknown storage.provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
port = 9000

[auth]
session_secret = "` + testSecret + `"

[mysql]
user = "file-user"

[storage]
provider = "none"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MYSQL_USER", "env-user")
	t.Setenv("SESSION_MAX_AGE_HOURS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "env-user", cfg.MySQL.User)
	assert.Equal(t, time.Hour, cfg.SessionMaxAge())
	assert.Equal(t, StorageNone, cfg.Storage.Provider)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPAddr())
}

func TestLoad_FailsWithoutSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_secret")
}

func TestMySQLDSN(t *testing.T) {
	cfg := validConfig()
	cfg.MySQL.Password = "pw"

	assert.Equal(t, "app:pw@tcp(127.0.0.1:3306)/vidshare?parseTime=true&loc=Local&charset=utf8mb4", cfg.MySQLDSN())

	cfg.MySQL.DSN = "custom"
	assert.Equal(t, "custom", cfg.MySQLDSN())
}
