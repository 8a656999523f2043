package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	LogLevel    string
	SupabaseUrl string
	// Service-role key used for the auth admin API (user creation, password rotation)
	SupabaseServiceKey string
	SupabaseJWTSecret  string
	SiteURL            string // Public base URL used in invitation / reset links
	// SMTP Configuration (Brevo)
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SMTPFromEmail    string
	AdminNotifyEmail string
	// Google Sheet import
	GoogleSheetID       string
	GoogleSheetGID      string
	SyncSecret          string
	SyncIntervalMinutes int
	SyncCron            string
	SheetFetchTimeout   int // seconds
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitPublicThreshold int
	RateLimitGlobalThreshold int
	// CORS
	CORSAllowedOrigins []string
	CORSAllowLocalhost bool
	// Object storage for uploaded CVs
	S3Provider        string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	CVBucket          string
	CVMaxBytes        int
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; production injects real env vars
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBUrl:              getEnv("DATABASE_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SupabaseUrl:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		SiteURL:            strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		// SMTP Configuration
		SMTPHost:         getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:    getEnv("SMTP_FROM_EMAIL", "noreply@candidate-boutique.pl"),
		AdminNotifyEmail: getEnv("ADMIN_NOTIFY_EMAIL", "kontakt@candidate-boutique.pl"),
		// Sheet import
		GoogleSheetID:       getEnv("GOOGLE_SHEET_ID", ""),
		GoogleSheetGID:      getEnv("GOOGLE_SHEET_GID", "0"),
		SyncSecret:          getEnv("SYNC_SECRET", ""),
		SyncIntervalMinutes: getEnvInt("SYNC_INTERVAL_MINUTES", 60),
		SyncCron:            getEnv("SYNC_CRON", "@every 15m"),
		SheetFetchTimeout:   getEnvInt("SHEET_FETCH_TIMEOUT_SECONDS", 30),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitPublicThreshold: getEnvInt("RATE_LIMIT_PUBLIC_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		// CORS
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", nil),
		CORSAllowLocalhost: getEnvBool("CORS_ALLOW_LOCALHOST", os.Getenv("GIN_MODE") != "release"),
		// Storage
		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "eu-central-1"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		CVBucket:          getEnv("CV_BUCKET", ""),
		CVMaxBytes:        getEnvInt("CV_MAX_BYTES", 10<<20),
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{cfg.SiteURL}
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if !cfg.EmailEnabled() {
		log.Println("WARNING: SMTP_PASSWORD not configured. Emails will only be logged (demo mode).")
	}
	if cfg.GoogleSheetID == "" {
		log.Println("WARNING: GOOGLE_SHEET_ID not configured. Candidate sync will fail.")
	}

	return cfg, nil
}

// EmailEnabled reports whether outbound email credentials are present.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

// SyncSecretConfigured reports whether /api/sync requires a bearer token.
func (c *Config) SyncSecretConfigured() bool {
	return c.SyncSecret != ""
}

// StorageEnabled reports whether CV uploads can be persisted.
func (c *Config) StorageEnabled() bool {
	return c.CVBucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

func (c *Config) RedisEnabled() bool {
	return c.UpstashRedisURL != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimRight(strings.TrimSpace(v), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}
