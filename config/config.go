package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SourceSupabase = "supabase"
	SourcePostgres = "postgres"
)

type Config struct {
	Source   string `validate:"oneof=supabase postgres"`
	Supabase SupabaseConfig
	DB       DBConfig
	Web      WebConfig
	Telegram TelegramConfig
}

type SupabaseConfig struct {
	URL     string `validate:"omitempty,url"`
	Key     string
	Timeout time.Duration `validate:"gt=0"`
}

type DBConfig struct {
	URL         string
	AutoMigrate bool
}

type WebConfig struct {
	Port     string `validate:"required,numeric"`
	Lang     string `validate:"oneof=ru en"`
	Currency string `validate:"required"`
}

type TelegramConfig struct {
	Token     string
	WebAppURL string `validate:"omitempty,url"` // mini-app link shown in the bot's main menu
	AdminID   int64  `validate:"gte=0"`         // owner; always an admin, even with an empty admins table
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("SUPABASE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("SUPABASE_TIMEOUT: %w", err)
	}

	adminID, err := strconv.ParseInt(getEnv("ADMIN_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_ID: %w", err)
	}

	cfg := &Config{
		Source: strings.ToLower(getEnv("MENU_SOURCE", SourceSupabase)),
		Supabase: SupabaseConfig{
			URL:     strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			Key:     getEnv("SUPABASE_KEY", ""),
			Timeout: timeout,
		},
		DB: DBConfig{
			URL:         getEnv("DATABASE_URL", ""),
			AutoMigrate: getBool("AUTO_MIGRATE"),
		},
		Web: WebConfig{
			Port:     getEnv("PORT", "8000"),
			Lang:     getEnv("LANG_CODE", "ru"),
			Currency: getEnv("CURRENCY", "₽"),
		},
		Telegram: TelegramConfig{
			Token:     getEnv("TOKEN", ""),
			WebAppURL: getEnv("WEBAPP_URL", ""),
			AdminID:   adminID,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags first, then the settings the selected source needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	var missing []string
	switch c.Source {
	case SourceSupabase:
		if c.Supabase.URL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.Supabase.Key == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
	case SourcePostgres:
		if c.DB.URL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if strings.EqualFold(v, "true") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
