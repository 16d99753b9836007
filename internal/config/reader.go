package config

import (
	"fmt"
	"slices"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values cleanenv cannot express with tags.
func (cfg *Config) Validate() error {
	if !slices.Contains([]string{EnvDev, EnvProd, EnvLocal}, cfg.Env) {
		return fmt.Errorf("unknown env: %s", cfg.Env)
	}

	switch cfg.Storage.Driver {
	case StorageDriverPostgres:
		if cfg.Postgres.Host == "" || cfg.Postgres.Username == "" || cfg.Postgres.Database == "" {
			return fmt.Errorf("postgres host, username and database are required")
		}
	case StorageDriverSQLite:
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	switch cfg.Password.Algorithm {
	case PasswordAlgorithmArgon2id, PasswordAlgorithmBcrypt:
	default:
		return fmt.Errorf("unknown password algorithm: %s", cfg.Password.Algorithm)
	}

	if len(cfg.Session.SigningKey) < 32 {
		return fmt.Errorf("session signing key must be at least 32 bytes")
	}
	if cfg.Session.TTL <= 0 || cfg.Session.RememberMeTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}
