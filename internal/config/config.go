package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

const (
	PasswordAlgorithmArgon2id = "argon2id"
	PasswordAlgorithmBcrypt   = "bcrypt"
)

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Session  SessionConfig
	Password PasswordConfig
	Tasks    TasksConfig
	CORS     CORSConfig
	Tracing  TracingConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"7777"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER" env-default:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"smart-task.db"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

// SessionConfig controls how session tokens are signed and carried.
// The token travels only in an httpOnly cookie.
type SessionConfig struct {
	Issuer        string        `env:"SESSION_ISSUER" env-default:"smart-task"`
	SigningKey    string        `env:"SESSION_SIGNING_KEY" env-required:"true"`
	TTL           time.Duration `env:"SESSION_TTL" env-default:"24h"`
	RememberMeTTL time.Duration `env:"SESSION_REMEMBER_ME_TTL" env-default:"720h"`
	CookieName    string        `env:"SESSION_COOKIE_NAME" env-default:"token"`
	CookieDomain  string        `env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure  bool          `env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

type PasswordConfig struct {
	Algorithm  string `env:"PASSWORD_ALGORITHM" env-default:"argon2id"`
	BcryptCost int    `env:"PASSWORD_BCRYPT_COST" env-default:"10"`
}

type TasksConfig struct {
	// Timezone decides which calendar day is "today" for due-date filters.
	Timezone string `env:"TASKS_TIMEZONE" env-default:"UTC"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

type TracingConfig struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" env-default:"smart-task"`
}
