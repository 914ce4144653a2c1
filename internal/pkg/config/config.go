package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"

	PasswordModeSentinel = "sentinel"
	PasswordModeBcrypt   = "bcrypt"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`

	StoreBackend   string        `env:"STORE_BACKEND,   default=memory"`
	SessionBackend string        `env:"SESSION_BACKEND, default=memory"`
	SessionTTL     time.Duration `env:"SESSION_TTL,     default=0s"`
	SeedDemoData   bool          `env:"SEED_DEMO_DATA,  default=true"`
	MailWorkers    int           `env:"MAIL_WORKERS,    default=4"`

	Auth    AuthConfig
	Latency LatencyConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AuthConfig struct {
	PasswordMode      string `env:"AUTH_PASSWORD_MODE,      default=sentinel"`
	SentinelPassword  string `env:"AUTH_SENTINEL_PASSWORD,  default=password"`
	VerificationToken string `env:"AUTH_VERIFICATION_TOKEN, default=mock-verification-token"`
}

type LatencyConfig struct {
	Authenticate     time.Duration `env:"LATENCY_AUTHENTICATE,      default=1s"`
	Register         time.Duration `env:"LATENCY_REGISTER,          default=1500ms"`
	VerifyEmail      time.Duration `env:"LATENCY_VERIFY_EMAIL,      default=1s"`
	SendVerification time.Duration `env:"LATENCY_SEND_VERIFICATION, default=800ms"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=invoicing_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through lookuper and validates the backend
// selectors.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendMongo, c.StoreBackend)
	}
	switch c.SessionBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.SessionBackend)
	}
	switch c.Auth.PasswordMode {
	case PasswordModeSentinel, PasswordModeBcrypt:
	default:
		return fmt.Errorf("AUTH_PASSWORD_MODE must be %q or %q, got %q", PasswordModeSentinel, PasswordModeBcrypt, c.Auth.PasswordMode)
	}
	return nil
}
