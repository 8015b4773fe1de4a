package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer adds background tasks to the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// Config describes the periodic jobs.
type Config struct {
	GenreWarmupEnabled  bool
	GenreWarmupSchedule string
	GenreWarmupOnStart  bool // also enqueue one warmup when Start succeeds
	Genres              []string

	AuditCleanupSchedule      string // empty disables cleanup
	AuditRetentionDays        int    // shelf events
	AuditCatalogRetentionDays int    // genre fetch events
}

// Scheduler enqueues genre warmup and audit cleanup tasks on cron schedules.
type Scheduler struct {
	queue  Enqueuer
	config Config

	cron       *cron.Cron
	entries    map[string]cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// New creates a scheduler. Nothing runs until Start.
func New(queue Enqueuer, cfg Config) *Scheduler {
	return &Scheduler{
		queue:   queue,
		config:  cfg,
		cron:    cron.New(cron.WithParser(cronParser)),
		entries: make(map[string]cron.EntryID),
	}
}

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start registers the configured jobs and starts the cron loop. It returns
// without starting when no job is enabled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.config.GenreWarmupEnabled && len(s.config.Genres) > 0 {
		if err := s.addJob("genre_warmup", s.config.GenreWarmupSchedule, func(ctx context.Context) { s.runGenreWarmup(ctx) }); err != nil {
			return err
		}
	} else {
		log.Printf("Scheduler: genre warmup disabled")
	}

	if s.config.AuditCleanupSchedule != "" {
		if err := s.addJob("audit_cleanup", s.config.AuditCleanupSchedule, s.runAuditCleanup); err != nil {
			return err
		}
	}

	if len(s.entries) == 0 {
		log.Printf("Scheduler: no jobs enabled")
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	if _, ok := s.entries["genre_warmup"]; ok && s.config.GenreWarmupOnStart {
		n := s.runGenreWarmup(ctx)
		log.Printf("Scheduler: startup genre warmup enqueued %d of %d genres", n, len(s.config.Genres))
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) addJob(name, schedule string, run func(context.Context)) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", schedule, name, err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.entries[name] = entryID

	parsed, _ := cronParser.Parse(schedule)
	log.Printf("Scheduler: %s scheduled with '%s'. Next run: %v", name, schedule, parsed.Next(time.Now()))
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// runGenreWarmup enqueues a fetch for every configured genre and returns
// how many were queued.
func (s *Scheduler) runGenreWarmup(ctx context.Context) int {
	enqueued := 0
	for _, genre := range s.config.Genres {
		id, err := s.queue.Enqueue(ctx, tasks.FetchGenreTask{Genre: genre})
		if err != nil {
			log.Printf("Genre warmup: failed to enqueue %q: %v", genre, err)
			continue
		}
		enqueued++
		log.Printf("Genre warmup: enqueued %q as task %s", genre, id)
	}
	return enqueued
}

func (s *Scheduler) runAuditCleanup(ctx context.Context) {
	id, err := s.queue.Enqueue(ctx, tasks.PruneActivityTask{
		ShelfRetentionDays:   s.config.AuditRetentionDays,
		CatalogRetentionDays: s.config.AuditCatalogRetentionDays,
	})
	if err != nil {
		log.Printf("Audit cleanup: failed to enqueue: %v", err)
		return
	}
	log.Printf("Audit cleanup: enqueued task %s", id)
}
