package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultDatabasePath is the default path for the main application database.
const DefaultDatabasePath = "./lingohub.db"

// DefaultWordCountThreshold is the batch size above which imports are
// handed to the worker queue instead of running in-request.
const DefaultWordCountThreshold = 500

type (
	Config struct {
		HTTP
		Global
		Database
		Export
		Audit
		Import
		Tasks
		Cleanup
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Export struct {
		Dir string // Directory for generated export archives
	}
	Audit struct {
		Dir string // Directory raw uploaded packages are copied to
	}
	Import struct {
		WordCountThreshold int // Batches above this go to the worker queue
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
	Cleanup struct {
		Enabled      bool
		Schedule     string        // Cron format: "0 * * * *" = hourly
		ExportMaxAge time.Duration // Remove generated archives older than this
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8177)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("export_dir", "./exports")
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("word_count_threshold", DefaultWordCountThreshold)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "15m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Cleanup defaults
	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("cleanup_export_max_age", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Export: Export{
			Dir: v.GetString("EXPORT_DIR"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Import: Import{
			WordCountThreshold: v.GetInt("WORD_COUNT_THRESHOLD"),
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
		Cleanup: Cleanup{
			Enabled:      v.GetBool("CLEANUP_ENABLED"),
			Schedule:     v.GetString("CLEANUP_SCHEDULE"),
			ExportMaxAge: v.GetDuration("CLEANUP_EXPORT_MAX_AGE"),
		},
	}
}
