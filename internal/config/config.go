package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config lifepulse（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	Log struct {
		Level  string
		Format string
	}
	Session struct {
		Backend    string // "memory" | "redis"
		CookieName string
		TTLDays    int
		Secure     bool
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	DBEnabled bool
	Database  DatabaseConfig
	Google    struct {
		ClientID string
	}
	Seed bool
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN 数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Session.Backend = getEnv("SESSION_BACKEND", "memory")
	cfg.Session.CookieName = getEnv("SESSION_COOKIE", "lifepulse_session")
	cfg.Session.TTLDays = parseInt(getEnv("SESSION_TTL_DAYS", "7"), 7)
	cfg.Session.Secure = getEnv("SESSION_SECURE", "false") == "true"

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	// Default to false: without a DB lifepulse runs fully on the in-memory store.
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "lifepulse")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Google.ClientID = getEnv("GOOGLE_CLIENT_ID", "")

	cfg.Seed = getEnv("SEED_DEMO_DATA", "true") == "true"

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
