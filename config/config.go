package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv pulls in .env when present; real environment variables win.
func LoadEnv() { _ = godotenv.Load() }

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Config struct {
	Port         string
	WebOrigin    string
	AllowOrigins []string
	DB           Database
	RedisAddr    string
	RedisPwd     string
	TokenSecret  string
	SessionTTL   time.Duration
}

func FromEnv() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil {
		ttl = d
	}

	originsCSV := get("ALLOW_ORIGINS", "http://localhost:3000")
	var origins []string
	for _, o := range strings.Split(originsCSV, ",") {
		if s := strings.TrimSpace(o); s != "" {
			origins = append(origins, s)
		}
	}

	return Config{
		Port:         get("PORT", "3000"),
		WebOrigin:    get("WEB_ORIGIN", "http://localhost:3000"),
		AllowOrigins: origins,
		DB: Database{
			Host:     get("DB_HOST", "127.0.0.1"),
			Port:     get("DB_PORT", "5432"),
			User:     get("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     get("DB_NAME", "lendit"),
		},
		RedisAddr:   get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:    os.Getenv("REDIS_PASSWORD"),
		TokenSecret: get("TOKEN_SECRET", "dev-only-secret"),
		SessionTTL:  ttl,
	}
}
