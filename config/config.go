package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is everything the process reads from the environment, prefixed
// LEKTOR_ (e.g. LEKTOR_DB_HOST).
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"lektor"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBLogMode  bool   `envconfig:"DB_LOGMODE"`

	// JWTSecret verifies the bearer tokens the SSO front issued. Issuance
	// itself is not our business.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	var c Config
	if err := envconfig.Process("lektor", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
