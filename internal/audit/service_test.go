package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	dbPath := filepath.Join(t.TempDir(), "audit.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewService(auditRepo.NewRepository(db)), db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		UserID:    "u1",
		EventType: entities.AuditEventStatus,
		Action:    "test_status",
		Status:    entities.AuditStatusSuccess,
	}

	err := svc.Log(context.Background(), event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "test_status", saved.Action)
}

func TestService_LogStatusChange(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("created", func(t *testing.T) {
		svc.LogStatusChange("u1", "b1", entities.ReadingStatusReading, true, nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ?", "status_created").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, "u1", event.UserID)
		assert.Equal(t, "b1", event.EntityID)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Contains(t, event.Metadata, `"status":"reading"`)
	})

	t.Run("failed update", func(t *testing.T) {
		svc.LogStatusChange("u1", "b2", entities.ReadingStatusCompleted, false, errors.New("disk full"))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("action = ? AND entity_id = ?", "status_updated", "b2").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Equal(t, "disk full", event.ErrorMsg)
	})
}

func TestService_LogFavoriteToggle(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogFavoriteToggle("u1", "b1", true, nil)
	svc.LogFavoriteToggle("u1", "b1", false, nil)
	svc.Wait()

	var actions []string
	require.NoError(t, db.Model(&entities.AuditEvent{}).Order("action").Pluck("action", &actions).Error)
	assert.Equal(t, []string{"favorite_added", "favorite_removed"}, actions)
}

func TestService_LogStatusRemovalAndGenreFetch(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogStatusRemoval("u1", "b1", 1, nil)
	svc.LogGenreFetch("fantasy", 12, nil)
	svc.Wait()

	var count int64
	db.Model(&entities.AuditEvent{}).Where("event_type = ?", entities.AuditEventStatus).Count(&count)
	assert.Equal(t, int64(1), count)

	var genre entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventGenre).First(&genre).Error)
	assert.Equal(t, "fantasy", genre.EntityID)
	assert.Empty(t, genre.UserID)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventStatus,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{EventType: entities.AuditEventStatus}))

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 20)
	assert.Equal(t, "aaaaaaa...", truncate(long, 10))
}
