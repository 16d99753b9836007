package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func TestEnvReader_Defaults(t *testing.T) {
	t.Setenv("ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", StorageDriverSQLite)
	t.Setenv("SESSION_SIGNING_KEY", testSigningKey)

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "smart-task.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.RememberMeTTL)
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.Equal(t, PasswordAlgorithmArgon2id, cfg.Password.Algorithm)
	assert.Equal(t, 10, cfg.Password.BcryptCost)
	assert.Equal(t, "UTC", cfg.Tasks.Timezone)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestEnvReader_Overrides(t *testing.T) {
	t.Setenv("ENV", EnvProd)
	t.Setenv("STORAGE_DRIVER", StorageDriverPostgres)
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USERNAME", "smart")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DATABASE", "tasks")
	t.Setenv("SESSION_SIGNING_KEY", testSigningKey)
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("PASSWORD_ALGORITHM", PasswordAlgorithmBcrypt)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, PasswordAlgorithmBcrypt, cfg.Password.Algorithm)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:      EnvDev,
			Storage:  StorageConfig{Driver: StorageDriverSQLite, SQLitePath: "x.db"},
			Session:  SessionConfig{SigningKey: testSigningKey, TTL: time.Hour, RememberMeTTL: 2 * time.Hour},
			Password: PasswordConfig{Algorithm: PasswordAlgorithmArgon2id},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown env", mutate: func(cfg *Config) { cfg.Env = "staging" }, wantErr: "unknown env"},
		{name: "unknown driver", mutate: func(cfg *Config) { cfg.Storage.Driver = "mongo" }, wantErr: "unknown storage driver"},
		{name: "postgres without host", mutate: func(cfg *Config) { cfg.Storage.Driver = StorageDriverPostgres }, wantErr: "postgres host"},
		{name: "short key", mutate: func(cfg *Config) { cfg.Session.SigningKey = "short" }, wantErr: "signing key"},
		{name: "unknown algorithm", mutate: func(cfg *Config) { cfg.Password.Algorithm = "md5" }, wantErr: "password algorithm"},
		{name: "zero ttl", mutate: func(cfg *Config) { cfg.Session.TTL = 0 }, wantErr: "ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
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
