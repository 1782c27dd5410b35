package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	DBMaxConns  int32
	LogLevel    string

	JWTSecret        string
	JWTIssuer        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	BcryptCost           int
	TokenCleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		refreshExpiry = 168 * time.Hour
	}

	cleanupInterval, err := time.ParseDuration(getEnv("TOKEN_CLEANUP_INTERVAL", "1h"))
	if err != nil || cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  int32(getEnvInt("DB_MAX_CONNS", 10)),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTIssuer:        getEnv("JWT_ISSUER", "pickup-api"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		BcryptCost:           getEnvInt("BCRYPT_COST", 12),
		TokenCleanupInterval: cleanupInterval,
	}, nil
}

// JWT returns the signing settings for the session services.
func (c *Config) JWT() services.JWTConfig {
	return services.JWTConfig{
		Secret:        c.JWTSecret,
		Issuer:        c.JWTIssuer,
		AccessExpiry:  c.JWTAccessExpiry,
		RefreshExpiry: c.JWTRefreshExpiry,
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
