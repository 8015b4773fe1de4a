package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/database/shelf"
	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

func newShelfService(t *testing.T) (*ShelfService, *gorm.DB, *fakeActivity) {
	t.Helper()
	db := setupTestDB(t)
	activity := &fakeActivity{}
	svc := NewShelfService(shelf.NewRepository(db), favourites.NewRepository(db), activity)
	return svc, db, activity
}

func statusReq(userID, bookID string, status entities.ReadingStatus) StatusRequest {
	return StatusRequest{PairRequest: PairRequest{UserID: userID, BookID: bookID}, Status: status}
}

func TestShelfService_UpdateStatus_Overwrites(t *testing.T) {
	svc, db, activity := newShelfService(t)
	ctx := context.Background()

	first, err := svc.UpdateStatus(ctx, statusReq("u1", "b1", entities.ReadingStatusReading))
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, first.Action)

	second, err := svc.UpdateStatus(ctx, statusReq("u1", "b1", entities.ReadingStatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, second.Action)
	assert.Equal(t, entities.ReadingStatusCompleted, second.Status)

	var rows []entities.UserBook
	require.NoError(t, db.Where("user_id = ? AND book_id = ?", "u1", "b1").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, entities.ReadingStatusCompleted, rows[0].Status)

	assert.Equal(t, []string{"status", "status"}, activity.kinds())
}

func TestShelfService_UpdateStatus_SameStatusIsNoOpWrite(t *testing.T) {
	svc, _, _ := newShelfService(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, statusReq("u1", "b1", entities.ReadingStatusReadingList))
	require.NoError(t, err)
	result, err := svc.UpdateStatus(ctx, statusReq("u1", "b1", entities.ReadingStatusReadingList))
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, result.Action)
	assert.Equal(t, entities.ReadingStatusReadingList, result.Status)
}

func TestShelfService_UpdateStatus_Validation(t *testing.T) {
	svc, db, activity := newShelfService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  StatusRequest
	}{
		{"missing user", statusReq("", "b1", entities.ReadingStatusReading)},
		{"blank book", statusReq("u1", "  ", entities.ReadingStatusReading)},
		{"missing status", statusReq("u1", "b1", "")},
		{"unknown status", statusReq("u1", "b1", "favorites")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(ctx, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}

	var count int64
	db.Model(&entities.UserBook{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, activity.kinds())
}

func TestShelfService_RemoveStatus_Idempotent(t *testing.T) {
	svc, _, activity := newShelfService(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, statusReq("u1", "b1", entities.ReadingStatusReading))
	require.NoError(t, err)

	removed, err := svc.RemoveStatus(ctx, PairRequest{UserID: "u1", BookID: "b1"})
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	removed, err = svc.RemoveStatus(ctx, PairRequest{UserID: "u1", BookID: "b1"})
	require.NoError(t, err)
	assert.NotNil(t, removed)
	assert.Empty(t, removed)

	assert.Equal(t, []string{"status", "removal"}, activity.kinds())
}

func TestShelfService_CheckStatus(t *testing.T) {
	svc, _, _ := newShelfService(t)
	ctx := context.Background()

	rows, err := svc.CheckStatus(ctx, PairRequest{UserID: "u1", BookID: "b1"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.UpdateStatus(ctx, statusReq("u1", "b1", entities.ReadingStatusReading))
	require.NoError(t, err)

	rows, err = svc.CheckStatus(ctx, PairRequest{UserID: "u1", BookID: "b1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entities.ReadingStatusReading, rows[0].Status)

	_, err = svc.CheckStatus(ctx, PairRequest{UserID: "u1"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestShelfService_ToggleFavorite_Involution(t *testing.T) {
	svc, _, activity := newShelfService(t)
	ctx := context.Background()
	pair := PairRequest{UserID: "u1", BookID: "b1"}

	on, err := svc.ToggleFavorite(ctx, pair)
	require.NoError(t, err)
	assert.Equal(t, FavoriteAdded, on.Action)
	assert.True(t, on.IsFavorite)
	require.NotNil(t, on.Favorite)
	assert.Equal(t, "b1", on.Favorite.BookID)

	rows, err := svc.CheckFavorite(ctx, pair)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	off, err := svc.ToggleFavorite(ctx, pair)
	require.NoError(t, err)
	assert.Equal(t, FavoriteRemoved, off.Action)
	assert.False(t, off.IsFavorite)
	assert.Nil(t, off.Favorite)

	rows, err = svc.CheckFavorite(ctx, pair)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, []string{"favorite", "favorite"}, activity.kinds())
}

func TestShelfService_ToggleFavorite_Validation(t *testing.T) {
	svc, _, _ := newShelfService(t)

	_, err := svc.ToggleFavorite(context.Background(), PairRequest{BookID: "b1"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestShelfService_Projections(t *testing.T) {
	svc, db, _ := newShelfService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&entities.Book{ID: "b1", Title: "Dune", Authors: []string{"Frank Herbert"}}).Error)

	_, err := svc.UpdateStatus(ctx, statusReq("u1", "b1", entities.ReadingStatusReading))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, statusReq("u1", "gone", entities.ReadingStatusCompleted))
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(ctx, PairRequest{UserID: "u1", BookID: "b1"})
	require.NoError(t, err)

	shelfBooks, err := svc.GetUserBooks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, shelfBooks, 2)

	byID := map[string]entities.ShelfBook{}
	for _, b := range shelfBooks {
		byID[b.BookID] = b
	}
	require.NotNil(t, byID["b1"].Title)
	assert.Equal(t, "Dune", *byID["b1"].Title)
	assert.Nil(t, byID["gone"].Title)
	assert.Equal(t, entities.ReadingStatusCompleted, byID["gone"].Status)

	favs, err := svc.GetFavorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Empty(t, favs[0].Status)
}

func TestShelfService_GetUserBooks_UnknownUser(t *testing.T) {
	svc, _, _ := newShelfService(t)

	books, err := svc.GetUserBooks(context.Background(), "nonexistent-user")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	_, err = svc.GetFavorites(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestShelfService_GetStats(t *testing.T) {
	svc, _, _ := newShelfService(t)
	ctx := context.Background()

	stats, err := svc.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Favorites)
	assert.Len(t, stats.ByStatus, len(entities.ReadingStatuses))

	for _, req := range []StatusRequest{
		statusReq("u1", "b1", entities.ReadingStatusReading),
		statusReq("u1", "b2", entities.ReadingStatusCompleted),
		statusReq("u1", "b3", entities.ReadingStatusCompleted),
		statusReq("u2", "b1", entities.ReadingStatusReadingList),
	} {
		_, err := svc.UpdateStatus(ctx, req)
		require.NoError(t, err)
	}
	_, err = svc.ToggleFavorite(ctx, PairRequest{UserID: "u1", BookID: "b9"})
	require.NoError(t, err)

	stats, err = svc.GetStats(ctx, " u1 ")
	require.NoError(t, err)
	assert.Equal(t, "u1", stats.UserID)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus[entities.ReadingStatusReading])
	assert.Equal(t, int64(2), stats.ByStatus[entities.ReadingStatusCompleted])
	assert.Equal(t, int64(0), stats.ByStatus[entities.ReadingStatusReadingList])
	assert.Equal(t, int64(1), stats.Favorites)

	_, err = svc.GetStats(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

type brokenShelf struct {
	ShelfStore
}

func (brokenShelf) UpsertStatus(context.Context, string, string, entities.ReadingStatus) (*entities.UserBook, bool, error) {
	return nil, false, errors.New("connection reset")
}

func TestShelfService_UpdateStatus_StorageFailure(t *testing.T) {
	activity := &fakeActivity{}
	svc := NewShelfService(brokenShelf{}, nil, activity)

	_, err := svc.UpdateStatus(context.Background(), statusReq("u1", "b1", entities.ReadingStatusReading))
	assert.ErrorIs(t, err, domainerrors.ErrStorage)
	assert.Equal(t, domainerrors.CodeStorage, domainerrors.CodeOf(err))
	require.Len(t, activity.records, 1)
	assert.Error(t, activity.records[0].err)
}
