package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig groups everything the token codec and the authenticator need:
// signing scheme and key material, bearer lifetime, verification leeway and
// the deadline/retry budget for directory lookups.
type AuthConfig struct {
	// Algorithm is one of HS256, PS256, EdDSA.
	Algorithm string `env:"JWT_ALGORITHM, default=HS256"`
	// Secret is the HS256 signing secret; ignored for asymmetric schemes.
	Secret string `env:"JWT_SECRET"`
	// PreviousSecrets keeps rotated-out HS256 secrets verifying during the
	// rotation overlap window.
	PreviousSecrets []string `env:"JWT_PREVIOUS_SECRETS"`
	// PrivateKeyFile is a PKCS#8 PEM file for PS256/EdDSA.
	PrivateKeyFile string `env:"JWT_PRIVATE_KEY_FILE"`
	// PreviousKeyFiles are PKIX PEM public keys of rotated-out pairs.
	PreviousKeyFiles []string `env:"JWT_PREVIOUS_KEY_FILES"`

	TokenTTL      time.Duration `env:"JWT_TTL,             default=15m"`
	ClockSkew     time.Duration `env:"JWT_CLOCK_SKEW,      default=30s"`
	LookupTimeout time.Duration `env:"AUTH_LOOKUP_TIMEOUT, default=2s"`
	LookupRetries int           `env:"AUTH_LOOKUP_RETRIES, default=2"`
	RoleCacheTTL  time.Duration `env:"ROLE_CACHE_TTL,      default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bank_backoffice"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
