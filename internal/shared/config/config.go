package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"idea-analyzer/internal/shared/telemetry"
)

const (
	EnvLocal      = "local"
	EnvProduction = "production"

	DefaultHistoryLimit = 100
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	GeminiAPIKey    string
	GeminiModel     string
	GeminiTimeout   time.Duration
	GoogleClientID  string
	GoogleSecret    string
	SessionSecret   string
	SessionTTL      time.Duration
	UploadDir       string
	PublicBaseURL   string
	PreferredScheme string
	HistoryLimit    int
	DriveFolderID   string
	MaxUploadMB     int
	ArtifactStore   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	DatabaseURL     string
	RedisURL        string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// IsProduction reports whether cookies and redirects should assume HTTPS.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads configuration from .env files, an optional config.yaml and environment variables.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			telemetry.Warn("config.read_failed", map[string]any{"err": err.Error()})
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:            strings.TrimSpace(v.GetString("PORT")),
		Env:             normalizeEnv(v.GetString("ENV")),
		LogLevel:        strings.TrimSpace(v.GetString("LOG_LEVEL")),
		GeminiAPIKey:    strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:     strings.TrimSpace(v.GetString("GEMINI_MODEL")),
		GeminiTimeout:   v.GetDuration("GEMINI_TIMEOUT"),
		GoogleClientID:  strings.TrimSpace(v.GetString("GOOGLE_CLIENT_ID")),
		GoogleSecret:    strings.TrimSpace(v.GetString("GOOGLE_CLIENT_SECRET")),
		SessionSecret:   v.GetString("SESSION_SECRET"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
		UploadDir:       strings.TrimSpace(v.GetString("UPLOAD_DIR")),
		PublicBaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/"),
		PreferredScheme: normalizeScheme(v.GetString("PREFERRED_SCHEME")),
		HistoryLimit:    v.GetInt("HISTORY_LIMIT"),
		DriveFolderID:   strings.TrimSpace(v.GetString("DRIVE_FOLDER_ID")),
		MaxUploadMB:     v.GetInt("MAX_UPLOAD_MB"),
		ArtifactStore:   normalizeStoreType(v.GetString("ARTIFACT_STORE")),
		AWSRegion:       strings.TrimSpace(v.GetString("AWS_REGION")),
		S3Bucket:        strings.TrimSpace(v.GetString("S3_BUCKET")),
		S3Prefix:        strings.TrimSpace(v.GetString("S3_PREFIX")),
		DatabaseURL:     strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:        strings.TrimSpace(v.GetString("REDIS_URL")),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.PreferredScheme == "" {
		if cfg.IsProduction() {
			cfg.PreferredScheme = "https"
		} else {
			cfg.PreferredScheme = "http"
		}
	}

	if cfg.GeminiAPIKey == "" {
		telemetry.Warn("config.gemini_key_missing", nil)
	}
	if cfg.IsProduction() && strings.TrimSpace(cfg.SessionSecret) == "" {
		telemetry.Warn("config.session_secret_missing", map[string]any{"env": cfg.Env})
	}
	if cfg.ArtifactStore == "s3" && cfg.S3Bucket == "" {
		telemetry.Warn("config.s3_bucket_missing", nil)
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "10000")
	v.SetDefault("ENV", EnvLocal)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_TIMEOUT", "120s")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("HISTORY_LIMIT", DefaultHistoryLimit)
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("ARTIFACT_STORE", "local")
	v.SetDefault("RATE_LIMIT_RPS", 0.2)
	v.SetDefault("RATE_LIMIT_BURST", 5)
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return EnvProduction
	default:
		return EnvLocal
	}
}

func normalizeScheme(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "https":
		return "https"
	case "http":
		return "http"
	default:
		return ""
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
