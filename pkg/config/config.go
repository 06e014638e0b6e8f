package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SMTP holds outbound mail settings.
type SMTP struct {
	Email    string
	Password string
	Server   string
	Port     int
}

// Khalti holds payment gateway settings.
type Khalti struct {
	SecretKey string
	BaseURL   string
}

// Chat holds chat-completion backend settings for the shop assistant.
type Chat struct {
	APIURL string
	Model  string
}

// Config is the process-wide read-only configuration, loaded once at startup.
type Config struct {
	Port           string
	DatabaseURL    string
	BaseURL        string // frontend base, used for product links and redirects
	BackendURL     string
	FrontendOrigin string
	UploadDir      string
	SMTP           SMTP
	Khalti         Khalti
	Chat           Chat
}

// Load reads configuration from the environment, preferring a .env file when
// one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine in deployed environments.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		BaseURL:        getEnv("BASE_URL", "https://localhost:5173"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8080"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "*"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		SMTP: SMTP{
			Email:    os.Getenv("SMTP_EMAIL"),
			Password: os.Getenv("SMTP_PASSWORD"),
			Server:   os.Getenv("SMTP_SERVER"),
			Port:     getEnvInt("SMTP_PORT", 587),
		},
		Khalti: Khalti{
			SecretKey: os.Getenv("KHALTI_SECRET_KEY"),
			BaseURL:   getEnv("KHALTI_BASE_URL", "https://a.khalti.com/api/v2"),
		},
		Chat: Chat{
			APIURL: getEnv("CHAT_API_URL", "http://localhost:11434/api/chat"),
			Model:  getEnv("CHAT_MODEL", "gemma3"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
