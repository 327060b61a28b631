// Package config は環境変数ベースのアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// SMTP
	EmailServerHost     string
	EmailServerPort     int
	EmailServerUser     string
	EmailServerPassword string
	EmailFrom           string
	SupportEmail        string

	// Email templates
	EmailsDir string

	// Auth
	SessionMaxAge    int           // セッション有効期間（秒）
	MagicLinkMaxAge  time.Duration // マジックリンクの有効期間
	CleanupInterval  time.Duration // 期限切れトークン/セッションの掃除間隔

	// Rate Limit
	RateLimitGeneral int // API全般（req/min/user）
	RateLimitSignin  int // サインインリンク要求（req/min/IP）

	// Server
	ServerPort  string
	MetricsPort string // Prometheusメトリクス用の別ポート
	BaseURL     string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.EmailServerHost = os.Getenv("EMAIL_SERVER_HOST")
	if cfg.EmailServerHost == "" {
		missing = append(missing, "EMAIL_SERVER_HOST")
	}

	portStr := os.Getenv("EMAIL_SERVER_PORT")
	if portStr == "" {
		missing = append(missing, "EMAIL_SERVER_PORT")
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("EMAIL_SERVER_PORT must be a number: %q", portStr)
		}
		cfg.EmailServerPort = port
	}

	cfg.EmailServerUser = os.Getenv("EMAIL_SERVER_USER")
	if cfg.EmailServerUser == "" {
		missing = append(missing, "EMAIL_SERVER_USER")
	}

	cfg.EmailServerPassword = os.Getenv("EMAIL_SERVER_PASSWORD")
	if cfg.EmailServerPassword == "" {
		missing = append(missing, "EMAIL_SERVER_PASSWORD")
	}

	cfg.EmailFrom = os.Getenv("EMAIL_FROM")
	if cfg.EmailFrom == "" {
		missing = append(missing, "EMAIL_FROM")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.SupportEmail = getEnvString("SUPPORT_EMAIL", "support@themodern.dev")
	cfg.EmailsDir = getEnvString("EMAILS_DIR", "emails")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.MagicLinkMaxAge = getEnvDuration("MAGIC_LINK_MAX_AGE", 10*time.Minute)
	cfg.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 1*time.Hour)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSignin = getEnvInt("RATE_LIMIT_SIGNIN", 5)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9090")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
