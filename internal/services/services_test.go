package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "services.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

type fakeSubjects struct {
	mu      sync.Mutex
	calls   []string
	volumes []metadata.Volume
	err     error
}

func (f *fakeSubjects) SearchBySubject(_ context.Context, subject string) ([]metadata.Volume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, subject)
	return f.volumes, f.err
}

func (f *fakeSubjects) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeDownloads struct {
	results []metadata.DownloadResult
	err     error
}

func (f *fakeDownloads) Search(_ context.Context, _ string) ([]metadata.DownloadResult, error) {
	return f.results, f.err
}

type activityRecord struct {
	kind   string
	userID string
	bookID string
	flag   bool
	err    error
}

type fakeActivity struct {
	mu      sync.Mutex
	records []activityRecord
}

func (f *fakeActivity) add(r activityRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, r)
}

func (f *fakeActivity) LogStatusChange(userID, bookID string, _ entities.ReadingStatus, created bool, err error) {
	f.add(activityRecord{kind: "status", userID: userID, bookID: bookID, flag: created, err: err})
}

func (f *fakeActivity) LogStatusRemoval(userID, bookID string, _ int, err error) {
	f.add(activityRecord{kind: "removal", userID: userID, bookID: bookID, err: err})
}

func (f *fakeActivity) LogFavoriteToggle(userID, bookID string, added bool, err error) {
	f.add(activityRecord{kind: "favorite", userID: userID, bookID: bookID, flag: added, err: err})
}

func (f *fakeActivity) LogGenreFetch(genre string, _ int, err error) {
	f.add(activityRecord{kind: "genre", bookID: genre, err: err})
}

func (f *fakeActivity) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make([]string, 0, len(f.records))
	for _, r := range f.records {
		kinds = append(kinds, r.kind)
	}
	return kinds
}
