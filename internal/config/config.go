package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session identifies the signed-in user to the remote collaborator.
// It is handed explicitly to whatever needs it; nothing reads it from
// ambient state.
type Session struct {
	UserID string
	Token  string
}

type Config struct {
	APIBaseURL      string
	LogLevel        string
	RequestTimeout  time.Duration
	DefaultCurrency string
	Session         Session
}

func New() *Config {
	// A missing .env is fine; real environment variables win either way.
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8080/api"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  getSeconds("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "USD"),
		Session: Session{
			UserID: os.Getenv("SESSION_USER_ID"),
			Token:  os.Getenv("SESSION_TOKEN"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
