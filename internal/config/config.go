package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	BasePath string

	DatabaseURL string
	RedisURL    string

	SessionSecret string
	SessionExpiry time.Duration

	FrontendOrigin            string
	FrontendGoogleCallbackURL string

	Google OAuthConfig

	AuthRateLimit int
	AuthRateBurst int

	// TrustedProxies holds the IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionExpiry, err := time.ParseDuration(getEnv("SESSION_EXPIRY", "24h"))
	if err != nil {
		sessionExpiry = 24 * time.Hour
	}

	return &Config{
		Port:     getEnv("PORT", "8000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BasePath: strings.TrimRight(getEnv("BASE_PATH", "/api/v1"), "/"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		SessionSecret: getEnvOrPanic("SESSION_SECRET"),
		SessionExpiry: sessionExpiry,

		FrontendOrigin:            getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		FrontendGoogleCallbackURL: getEnv("FRONTEND_GOOGLE_CALLBACK_URL", "http://localhost:5173/google/oauth/callback"),

		Google: OAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_CALLBACK_URL", ""),
		},

		AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateBurst: getEnvInt("AUTH_RATE_BURST", 5),

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
	}, nil
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

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
