package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	entityBook  = "book"
	entityGenre = "genre"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event queued with LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogStatusChange records a reading status upsert.
func (s *Service) LogStatusChange(userID, bookID string, status entities.ReadingStatus, created bool, err error) {
	action := "status_updated"
	if created {
		action = "status_created"
	}

	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventStatus,
		Action:      action,
		Description: fmt.Sprintf("Set reading status to %s", status),
		EntityType:  entityBook,
		EntityID:    bookID,
		Metadata:    encodeMetadata(map[string]any{"status": status}),
		Status:      entities.AuditStatusSuccess,
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// LogStatusRemoval records a reading status removal.
func (s *Service) LogStatusRemoval(userID, bookID string, removed int, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventStatus,
		Action:      "status_removed",
		Description: fmt.Sprintf("Removed reading status (%d rows)", removed),
		EntityType:  entityBook,
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// LogFavoriteToggle records a favourite being added or removed.
func (s *Service) LogFavoriteToggle(userID, bookID string, added bool, err error) {
	action, description := "favorite_removed", "Removed book from favourites"
	if added {
		action, description = "favorite_added", "Added book to favourites"
	}

	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventFavorite,
		Action:      action,
		Description: description,
		EntityType:  entityBook,
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// LogGenreFetch records a fallback fetch from the external catalog.
func (s *Service) LogGenreFetch(genre string, fetched int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventGenre,
		Action:      "genre_fallback",
		Description: fmt.Sprintf("Fetched %d books for genre %q", fetched, genre),
		EntityType:  entityGenre,
		EntityID:    genre,
		Metadata:    encodeMetadata(map[string]any{"books_count": fetched}),
		Status:      entities.AuditStatusSuccess,
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, userID, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(ctx context.Context, eventType entities.AuditEventType, userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(ctx, eventType, userID, limit, offset)
}

// DeleteOldEvents removes events older than retention, limited to
// eventTypes when any are given.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration, eventTypes ...entities.AuditEventType) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff, eventTypes...)
}

func markFailed(event *entities.AuditEvent, err error) {
	if err == nil {
		return
	}
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), 500)
}

func encodeMetadata(metadata map[string]any) string {
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
