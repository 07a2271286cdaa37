package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName         = "Shelfwise"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultJWTAlgorithm    = "HS256"
	defaultJWTExpiration   = 15 * time.Minute
	defaultBcryptCost      = 10
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	jwtSecretEnvVar        = "JWT_SECRET"
	jwtAlgorithmEnvVar     = "JWT_ALGORITHM"
	jwtExpirationEnvVar    = "JWT_EXPIRATION"
	bcryptCostEnvVar       = "BCRYPT_COST"
	loginRateEnvVar        = "LOGIN_RATE_LIMIT_PER_MINUTE"
	migrateEnvVar          = "MIGRATE_ON_START"
)

// Config captures application runtime configuration loaded from environment variables.
// It is built once at process start and passed to the components that need it.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	JWTSecret     string
	JWTAlgorithm  string
	JWTExpiration time.Duration
	BcryptCost    int

	// LoginRateLimit is the number of login attempts allowed per minute and
	// username. Zero disables the limiter.
	LoginRateLimit   int
	CORSAllowOrigins string
	MigrateOnStart   bool
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ShutdownPeriod:   defaultShutdownDelay,
		IdempotencyTTL:   defaultIdempotencyTTL,
		JWTSecret:        os.Getenv(jwtSecretEnvVar),
		JWTAlgorithm:     strings.ToUpper(getEnv(jwtAlgorithmEnvVar, defaultJWTAlgorithm)),
		JWTExpiration:    defaultJWTExpiration,
		BcryptCost:       defaultBcryptCost,
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		MigrateOnStart:   true,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(jwtExpirationEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", jwtExpirationEnvVar, err)
		}
		if seconds <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be positive", jwtExpirationEnvVar)
		}
		cfg.JWTExpiration = time.Duration(seconds) * time.Second
	}

	if cfg.BcryptCost, err = intFromEnv(bcryptCostEnvVar, cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.LoginRateLimit, err = intFromEnv(loginRateEnvVar, 0); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(migrateEnvVar); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", migrateEnvVar, err)
		}
		cfg.MigrateOnStart = b
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("%s must be set", jwtSecretEnvVar)
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set")
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set")
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the application runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// durationFromEnv prefers the whole-seconds variable over the Go duration one.
func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}
