package tasks

import "time"

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// MaxRetries caps attempts for genre fetches. Default: 3
	MaxRetries int

	// RetryDelay is the backoff between genre fetch attempts. Default: 1m
	RetryDelay time.Duration

	// TaskTimeout bounds a single genre fetch. Default: 5m
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long to keep completed tasks. Default: 24h
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// queueSettings is the subset of Config baked into queue definitions.
// backlite reads QueueConfig from the task type, so it is package state set
// by Configure before queues are registered.
var queueSettings = DefaultConfig()

// Configure applies cfg to queue definitions. Call before Register.
func Configure(cfg Config) {
	defaults := DefaultConfig()
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = defaults.TaskTimeout
	}
	if cfg.RetentionDuration <= 0 {
		cfg.RetentionDuration = defaults.RetentionDuration
	}
	queueSettings = cfg
}
