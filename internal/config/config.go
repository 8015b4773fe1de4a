package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		GoogleBooks
		Libgen
		Catalog
		Chat
		Tasks
		GenreWarmup
		Audit
	}

	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins []string // CORS; empty disables
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string // sqlite file, used when URL is empty
		URL  string // postgres://... DSN
	}
	GoogleBooks struct {
		BaseURL string
		APIKey  string
	}
	Libgen struct {
		BaseURL string // consumet-compatible API root
	}
	Catalog struct {
		GenreFallbackThreshold int
	}
	Chat struct {
		APIKey      string
		Model       string
		SessionTTL  time.Duration
		MaxSessions int64
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	GenreWarmup struct {
		Enabled   bool
		Schedule  string   // Cron format: "0 3 * * *" = daily at 03:00
		OnStartup bool     // Also run once when the server starts
		Genres    []string // Genres to keep stocked locally
	}
	Audit struct {
		RetentionDays        int    // Reading status and favourite events
		CatalogRetentionDays int    // Genre fetch events
		CleanupSchedule      string // Cron format
		SnapshotDir          string // Raw upstream payloads; empty disables
	}
)

// DSN returns the connection string handed to database.NewDatabase:
// the postgres URL when configured, the sqlite path otherwise.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return d.Path
}

// splitList parses a comma-separated env value into trimmed, non-empty items.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")

	// External catalogs
	v.SetDefault("google_books_base_url", DefaultGoogleBooksBaseURL)
	v.SetDefault("google_books_api_key", "")
	v.SetDefault("libgen_base_url", "https://api.consumet.org")
	v.SetDefault("genre_fallback_threshold", DefaultGenreFallbackThreshold)

	// Chat defaults
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("chat_model", DefaultChatModel)
	v.SetDefault("chat_session_ttl", "30m")
	v.SetDefault("chat_max_sessions", 1000)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Scheduled jobs
	v.SetDefault("genre_warmup_enabled", false)
	v.SetDefault("genre_warmup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("genre_warmup_on_startup", true)
	v.SetDefault("genre_warmup_genres", "fiction,fantasy,science-fiction,mystery,romance")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_catalog_retention_days", 7)
	v.SetDefault("audit_cleanup_schedule", "30 4 * * *") // Daily at 04:30
	v.SetDefault("audit_dir", "")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
			URL:  v.GetString("DATABASE_URL"),
		},
		GoogleBooks: GoogleBooks{
			BaseURL: v.GetString("GOOGLE_BOOKS_BASE_URL"),
			APIKey:  v.GetString("GOOGLE_BOOKS_API_KEY"),
		},
		Libgen: Libgen{
			BaseURL: v.GetString("LIBGEN_BASE_URL"),
		},
		Catalog: Catalog{
			GenreFallbackThreshold: v.GetInt("GENRE_FALLBACK_THRESHOLD"),
		},
		Chat: Chat{
			APIKey:      v.GetString("GEMINI_API_KEY"),
			Model:       v.GetString("CHAT_MODEL"),
			SessionTTL:  v.GetDuration("CHAT_SESSION_TTL"),
			MaxSessions: v.GetInt64("CHAT_MAX_SESSIONS"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		GenreWarmup: GenreWarmup{
			Enabled:   v.GetBool("GENRE_WARMUP_ENABLED"),
			Schedule:  v.GetString("GENRE_WARMUP_SCHEDULE"),
			OnStartup: v.GetBool("GENRE_WARMUP_ON_STARTUP"),
			Genres:    splitList(v.GetString("GENRE_WARMUP_GENRES")),
		},
		Audit: Audit{
			RetentionDays:        v.GetInt("AUDIT_RETENTION_DAYS"),
			CatalogRetentionDays: v.GetInt("AUDIT_CATALOG_RETENTION_DAYS"),
			CleanupSchedule:      v.GetString("AUDIT_CLEANUP_SCHEDULE"),
			SnapshotDir:          v.GetString("AUDIT_DIR"),
		},
	}
}
