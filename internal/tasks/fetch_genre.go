package tasks

import (
	"context"
	"fmt"
	"log"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// GenreFetcher tops up the local catalog for a genre.
type GenreFetcher interface {
	FetchByGenre(ctx context.Context, genre string) ([]entities.Book, error)
}

// FetchGenreTask stocks the local catalog for one genre.
type FetchGenreTask struct {
	Genre string `json:"genre"`
}

// Config returns the queue configuration for genre fetch tasks.
func (t FetchGenreTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "fetch_genre",
		MaxAttempts: queueSettings.MaxRetries,
		Backoff:     queueSettings.RetryDelay,
		Timeout:     queueSettings.TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   queueSettings.RetentionDuration,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FetchGenreProcessor creates a processor function for FetchGenreTask.
func FetchGenreProcessor(fetcher GenreFetcher) backlite.QueueProcessor[FetchGenreTask] {
	return func(ctx context.Context, task FetchGenreTask) error {
		if fetcher == nil {
			return fmt.Errorf("genre fetcher not configured")
		}

		books, err := fetcher.FetchByGenre(ctx, task.Genre)
		if err != nil {
			return fmt.Errorf("fetch genre %q: %w", task.Genre, err)
		}

		log.Printf("[TASK] Genre %q has %d books available", task.Genre, len(books))
		return nil
	}
}

// NewFetchGenreQueue creates a backlite queue for genre fetch tasks.
func NewFetchGenreQueue(fetcher GenreFetcher) backlite.Queue {
	return backlite.NewQueue(FetchGenreProcessor(fetcher))
}
