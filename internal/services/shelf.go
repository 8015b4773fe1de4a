package services

import (
	"context"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// ShelfService reconciles reading status and favourites for (user, book)
// pairs. Each mutation is a single atomic store call.
type ShelfService struct {
	shelf      ShelfStore
	favourites FavouritesStore
	activity   ActivityLogger
	validator  *validation.Validator
}

// NewShelfService creates a new ShelfService. activity may be nil.
func NewShelfService(shelf ShelfStore, favourites FavouritesStore, activity ActivityLogger) *ShelfService {
	if activity == nil {
		activity = noopActivity{}
	}
	return &ShelfService{
		shelf:      shelf,
		favourites: favourites,
		activity:   activity,
		validator:  validation.New(),
	}
}

func (s *ShelfService) validatePair(req *PairRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	req.BookID = strings.TrimSpace(req.BookID)
	return s.validator.Validate(req)
}

// UpdateStatus creates or overwrites the status of the pair.
func (s *ShelfService) UpdateStatus(ctx context.Context, req StatusRequest) (*StatusUpdate, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.BookID = strings.TrimSpace(req.BookID)
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	row, created, err := s.shelf.UpsertStatus(ctx, req.UserID, req.BookID, req.Status)
	s.activity.LogStatusChange(req.UserID, req.BookID, req.Status, created, err)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to update book status")
	}

	action := StatusUpdated
	if created {
		action = StatusCreated
	}
	return &StatusUpdate{Action: action, UserBook: *row}, nil
}

// RemoveStatus deletes the pair's status. Removing an absent pair is not an
// error and yields an empty slice.
func (s *ShelfService) RemoveStatus(ctx context.Context, req PairRequest) ([]entities.UserBook, error) {
	if err := s.validatePair(&req); err != nil {
		return nil, err
	}

	deleted, err := s.shelf.DeleteStatus(ctx, req.UserID, req.BookID)
	if err != nil {
		s.activity.LogStatusRemoval(req.UserID, req.BookID, 0, err)
		return nil, domainerrors.Storage(err, "failed to remove book status")
	}
	if len(deleted) > 0 {
		s.activity.LogStatusRemoval(req.UserID, req.BookID, len(deleted), nil)
	}
	return deleted, nil
}

// CheckStatus returns the pair's status row, or an empty slice.
func (s *ShelfService) CheckStatus(ctx context.Context, req PairRequest) ([]entities.UserBook, error) {
	if err := s.validatePair(&req); err != nil {
		return nil, err
	}

	rows, err := s.shelf.GetStatus(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to check book status")
	}
	return rows, nil
}

// ToggleFavorite flips the favourite state of the pair.
func (s *ShelfService) ToggleFavorite(ctx context.Context, req PairRequest) (*ToggleResult, error) {
	if err := s.validatePair(&req); err != nil {
		return nil, err
	}

	added, favourite, err := s.favourites.Toggle(ctx, req.UserID, req.BookID)
	s.activity.LogFavoriteToggle(req.UserID, req.BookID, added, err)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to toggle favorite")
	}

	if !added {
		return &ToggleResult{Action: FavoriteRemoved, IsFavorite: false}, nil
	}
	return &ToggleResult{Action: FavoriteAdded, IsFavorite: true, Favorite: favourite}, nil
}

// CheckFavorite returns the pair's favourite row, or an empty slice.
func (s *ShelfService) CheckFavorite(ctx context.Context, req PairRequest) ([]entities.UserFavorite, error) {
	if err := s.validatePair(&req); err != nil {
		return nil, err
	}

	rows, err := s.favourites.GetFavorite(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to check favorite")
	}
	return rows, nil
}

// GetUserBooks returns the user's shelf. Unknown users get an empty slice.
func (s *ShelfService) GetUserBooks(ctx context.Context, userID string) ([]entities.ShelfBook, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.Validation("userId is required")
	}

	books, err := s.shelf.GetUserBooks(ctx, userID)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to get user books")
	}
	return books, nil
}

// GetFavorites returns the user's favourite books.
func (s *ShelfService) GetFavorites(ctx context.Context, userID string) ([]entities.ShelfBook, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.Validation("userId is required")
	}

	books, err := s.favourites.GetFavorites(ctx, userID)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to get favorites")
	}
	return books, nil
}

// GetStats summarises the user's shelf: books per status and favourites.
func (s *ShelfService) GetStats(ctx context.Context, userID string) (*ShelfStats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.Validation("userId is required")
	}

	counts, err := s.shelf.CountByStatus(ctx, userID)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to count user books")
	}
	favourites, err := s.favourites.GetFavouriteCount(ctx, userID)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to count favorites")
	}

	stats := &ShelfStats{UserID: userID, ByStatus: counts, Favorites: favourites}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
