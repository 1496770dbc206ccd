package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var configEnv = []string{
	"MEAL_PLANNER_CONFIG", "MEAL_PLANNER_DB_PATH", "MEAL_PLANNER_CATALOG_PATH", "MEAL_PLANNER_LOCALE",
	"LOG_LEVEL", "GEMINI_API_KEY", "GROQ_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL",
	"TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID", "API_JWT_SECRET", "PORT",
}

// clearEnv blanks every variable NewFromEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DBPath != DefaultDBPath {
			t.Errorf("Expected DBPath %q, got %q", DefaultDBPath, cfg.DBPath)
		}
		if cfg.Port != DefaultPort {
			t.Errorf("Expected Port %d, got %d", DefaultPort, cfg.Port)
		}
		if cfg.CarbRatio != 0.5 || cfg.ProteinRatio != 0.2 || cfg.FatRatio != 0.3 {
			t.Errorf("Expected 5:2:3 ratios, got %v/%v/%v", cfg.CarbRatio, cfg.ProteinRatio, cfg.FatRatio)
		}
		if cfg.Locale != "ko" || cfg.LogLevel != "info" {
			t.Errorf("Expected ko/info, got %s/%s", cfg.Locale, cfg.LogLevel)
		}
	})

	t.Run("Success", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEAL_PLANNER_DB_PATH", "/tmp/meals.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")
		t.Setenv("ADMIN_TELEGRAM_ID", "99")
		t.Setenv("PORT", "9090")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DBPath != "/tmp/meals.db" {
			t.Errorf("Expected DBPath to be '/tmp/meals.db', got '%s'", cfg.DBPath)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if !reflect.DeepEqual(cfg.TelegramAllowedUserIDs, []int64{12, 34}) {
			t.Errorf("Unexpected allowed ids %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 99 || cfg.Port != 9090 {
			t.Errorf("Expected admin 99 and port 9090, got %d and %d", cfg.AdminTelegramID, cfg.Port)
		}
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid user id, got nil")
		}
		expectedError := `TELEGRAM_ALLOWED_USER_IDS contains invalid id "abc"`
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidPort", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "http")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid PORT, got nil")
		}
	})

	t.Run("FileAndEnvPrecedence", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEAL_PLANNER_CONFIG", writeFile(t, `
log_level = "debug"

[targets]
carb = 0.6
protein = 0.25
fat = 0.15

[report]
locale = "en"
`))
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LogLevel != "warn" {
			t.Errorf("Expected env LOG_LEVEL to win, got %q", cfg.LogLevel)
		}
		if cfg.CarbRatio != 0.6 || cfg.ProteinRatio != 0.25 || cfg.FatRatio != 0.15 {
			t.Errorf("Expected file ratios, got %v/%v/%v", cfg.CarbRatio, cfg.ProteinRatio, cfg.FatRatio)
		}
		if cfg.Locale != "en" {
			t.Errorf("Expected locale en, got %q", cfg.Locale)
		}
	})

	t.Run("RatiosMustSumToOne", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEAL_PLANNER_CONFIG", writeFile(t, "[targets]\ncarb = 0.7\n"))

		_, err := NewFromEnv()
		if err == nil || !strings.Contains(err.Error(), "sum to 1") {
			t.Fatalf("Expected a ratio sum error, got %v", err)
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEAL_PLANNER_CONFIG", writeFile(t, "log_level = \n"))

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for malformed TOML, got nil")
		}
	})
}

func TestLoadFileFromPath(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		f, err := LoadFileFromPath(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil || f != nil {
			t.Fatalf("Expected nil, nil for a missing file, got %v, %v", f, err)
		}
		if f.GetLocale() != DefaultLocale || f.GetCarbRatio() != DefaultCarbRatio {
			t.Error("Expected a nil File to report defaults")
		}
	})

	t.Run("ZeroRatioIsKept", func(t *testing.T) {
		f, err := LoadFileFromPath(writeFile(t, "[targets]\ncarb = 0.7\nprotein = 0.3\nfat = 0.0\n"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if f.GetFatRatio() != 0 {
			t.Errorf("Expected explicit zero fat ratio, got %v", f.GetFatRatio())
		}
	})
}

func TestValidate(t *testing.T) {
	base := Config{CarbRatio: 0.5, ProteinRatio: 0.2, FatRatio: 0.3, Locale: "ko"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"english", func(c *Config) { c.Locale = "en" }, false},
		{"unknown locale", func(c *Config) { c.Locale = "fr" }, true},
		{"negative ratio", func(c *Config) { c.CarbRatio = -0.1; c.FatRatio = 0.9 }, true},
		{"ratio above one", func(c *Config) { c.CarbRatio = 1.2 }, true},
		{"sum below one", func(c *Config) { c.FatRatio = 0.2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsAllowedUser(t *testing.T) {
	open := &Config{}
	if !open.IsAllowedUser(42) {
		t.Error("Expected an empty allow list to admit everyone")
	}

	restricted := &Config{TelegramAllowedUserIDs: []int64{12}, AdminTelegramID: 99}
	for id, want := range map[int64]bool{12: true, 99: true, 42: false, 0: false} {
		if got := restricted.IsAllowedUser(id); got != want {
			t.Errorf("IsAllowedUser(%d) = %v, want %v", id, got, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("Expected no error for a missing file, got %v", err)
		}
	})

	t.Run("ExistingValuesWin", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "MEAL_PLANNER_DOTENV_NEW=from-file\nMEAL_PLANNER_DOTENV_SET=from-file\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write env file: %v", err)
		}

		t.Setenv("MEAL_PLANNER_DOTENV_SET", "from-env")
		os.Unsetenv("MEAL_PLANNER_DOTENV_NEW")
		t.Cleanup(func() { os.Unsetenv("MEAL_PLANNER_DOTENV_NEW") })

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := os.Getenv("MEAL_PLANNER_DOTENV_NEW"); got != "from-file" {
			t.Errorf("Expected value from file, got %q", got)
		}
		if got := os.Getenv("MEAL_PLANNER_DOTENV_SET"); got != "from-env" {
			t.Errorf("Expected environment to win, got %q", got)
		}
	})
}
