package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	DefaultShelfActivityRetentionDays   = 30
	DefaultCatalogActivityRetentionDays = 7
)

var (
	shelfEventTypes   = []entities.AuditEventType{entities.AuditEventStatus, entities.AuditEventFavorite}
	catalogEventTypes = []entities.AuditEventType{entities.AuditEventGenre}
)

// ActivityPruner deletes activity log entries of the given types that are
// older than retention.
type ActivityPruner interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration, eventTypes ...entities.AuditEventType) (int64, error)
}

// PruneActivityTask trims the activity log. Shelf events are a user's
// history; catalog fetch events only matter for recent diagnostics, so each
// group has its own retention. Zero selects the default.
type PruneActivityTask struct {
	ShelfRetentionDays   int `json:"shelf_retention_days"`
	CatalogRetentionDays int `json:"catalog_retention_days"`
}

func (t PruneActivityTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_activity",
		MaxAttempts: queueSettings.MaxRetries,
		Backoff:     queueSettings.RetryDelay,
		Timeout:     queueSettings.TaskTimeout,
		Retention: &backlite.Retention{
			Duration: queueSettings.RetentionDuration,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func retentionDays(days, fallback int) time.Duration {
	if days <= 0 {
		days = fallback
	}
	return time.Duration(days) * 24 * time.Hour
}

// PruneActivityProcessor prunes shelf events first, then catalog events.
// A failure on either group fails the task so backlite retries it.
func PruneActivityProcessor(pruner ActivityPruner) backlite.QueueProcessor[PruneActivityTask] {
	return func(ctx context.Context, task PruneActivityTask) error {
		if pruner == nil {
			return fmt.Errorf("activity pruner not configured")
		}

		shelf, err := pruner.DeleteOldEvents(ctx, retentionDays(task.ShelfRetentionDays, DefaultShelfActivityRetentionDays), shelfEventTypes...)
		if err != nil {
			return fmt.Errorf("prune shelf activity: %w", err)
		}

		catalog, err := pruner.DeleteOldEvents(ctx, retentionDays(task.CatalogRetentionDays, DefaultCatalogActivityRetentionDays), catalogEventTypes...)
		if err != nil {
			return fmt.Errorf("prune catalog activity: %w", err)
		}

		log.Printf("[TASK] Pruned activity log: %d shelf events, %d catalog events", shelf, catalog)
		return nil
	}
}

// NewPruneActivityQueue creates a backlite queue for activity pruning.
func NewPruneActivityQueue(pruner ActivityPruner) backlite.Queue {
	return backlite.NewQueue(PruneActivityProcessor(pruner))
}
