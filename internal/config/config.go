package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	WebAddr       string
	TelegramToken string
	// GeminiAPIKey is the deployment key used when a user has not saved one.
	GeminiAPIKey   string
	AllowSharedKey bool
	DBPath         string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	MaxConcurrent     int
	SessionTTL        time.Duration
	RequestTimeout    time.Duration
	HTTPTimeout       time.Duration
	GeneratePerMinute int
	GeminiBaseURL     string
	GeminiAPIVersion  string
}

func Load() (Config, error) {
	cfg := Config{
		WebAddr:           strings.TrimSpace(getEnv("WEB_ADDR", ":8080")),
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		AllowSharedKey:    getEnvBool("ALLOW_SHARED_KEY", false),
		DBPath:            strings.TrimSpace(getEnv("DB_PATH", "prompt-studio.db")),
		LogLevel:          strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:             getEnvBool("DEBUG", false),
		PreferIPv4:        getEnvBool("PREFER_IPV4", true),
		MaxConcurrent:     getEnvInt("MAX_CONCURRENT", 4),
		SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 180)) * time.Second,
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GeneratePerMinute: getEnvInt("GENERATE_PER_MINUTE", 10),
		GeminiBaseURL:     strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion:  strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.GeneratePerMinute < 0 {
		cfg.GeneratePerMinute = 0
	}

	return cfg, nil
}

// RequireTelegram reports a missing bot token.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

// SharedKey is the fallback credential for users who have not saved a key.
func (c Config) SharedKey() string {
	if !c.AllowSharedKey {
		return ""
	}
	return c.GeminiAPIKey
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
