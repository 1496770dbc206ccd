package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultDBPath = "data/meal-planner.db"
	DefaultPort   = 8080
)

// Config holds the configuration for the application.
type Config struct {
	DBPath      string
	CatalogPath string
	LogLevel    string

	CarbRatio    float64
	ProteinRatio float64
	FatRatio     float64
	Locale       string

	GeminiAPIKey string
	GroqAPIKey   string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	APIJWTSecret string
	Port         int
}

// NewFromEnv creates a new Config object from environment variables, layered
// over the optional TOML file named by MEAL_PLANNER_CONFIG. Every key is
// optional; the commands check for the ones they need.
func NewFromEnv() (*Config, error) {
	file, err := LoadFileFromPath(os.Getenv("MEAL_PLANNER_CONFIG"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{
		DBPath:       envOr("MEAL_PLANNER_DB_PATH", DefaultDBPath),
		CatalogPath:  os.Getenv("MEAL_PLANNER_CATALOG_PATH"),
		LogLevel:     envOr("LOG_LEVEL", file.GetLogLevel()),
		CarbRatio:    file.GetCarbRatio(),
		ProteinRatio: file.GetProteinRatio(),
		FatRatio:     file.GetFatRatio(),
		Locale:       envOr("MEAL_PLANNER_LOCALE", file.GetLocale()),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),

		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),

		APIJWTSecret: os.Getenv("API_JWT_SECRET"),
		Port:         DefaultPort,
	}

	if cfg.TelegramAllowedUserIDs, err = parseIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS")); err != nil {
		return nil, err
	}

	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not a valid id: %q", s)
		}
		cfg.AdminTelegramID = id
	}

	if s := os.Getenv("PORT"); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("PORT is not a valid port: %q", s)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the macro ratios and locale.
func (c *Config) Validate() error {
	ratios := []struct {
		name  string
		value float64
	}{
		{"carb", c.CarbRatio},
		{"protein", c.ProteinRatio},
		{"fat", c.FatRatio},
	}
	sum := 0.0
	for _, r := range ratios {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s ratio must be between 0 and 1, got %v", r.name, r.value)
		}
		sum += r.value
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("macro ratios must sum to 1, got %v", sum)
	}

	switch c.Locale {
	case "ko", "en":
	default:
		return fmt.Errorf("unsupported locale %q (want ko or en)", c.Locale)
	}
	return nil
}

// IsAllowedUser reports whether a Telegram user may talk to the bot. An empty
// allow list admits everyone.
func (c *Config) IsAllowedUser(id int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	if c.AdminTelegramID != 0 && id == c.AdminTelegramID {
		return true
	}
	for _, allowed := range c.TelegramAllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS contains invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
