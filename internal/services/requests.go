package services

import "github.com/mrlokans/bookshelf/internal/entities"

// PairRequest identifies a user's relationship to a book.
type PairRequest struct {
	UserID string `json:"userId" form:"userId" uri:"userId" validate:"notblank,max=128"`
	BookID string `json:"bookId" form:"bookId" uri:"bookId" validate:"notblank,max=64"`
}

// StatusRequest sets the reading status of a pair.
type StatusRequest struct {
	PairRequest
	Status entities.ReadingStatus `json:"status" validate:"required,oneof=reading_list reading completed"`
}

// UserRequest registers a user.
type UserRequest struct {
	UserID string `json:"userId" validate:"notblank,max=128"`
	Email  string `json:"email" validate:"required,email"`
}

// StatusAction reports which branch an upsert took.
type StatusAction string

const (
	StatusCreated StatusAction = "created"
	StatusUpdated StatusAction = "updated"
)

// StatusUpdate is the stored row plus the branch taken.
type StatusUpdate struct {
	Action StatusAction `json:"action"`
	entities.UserBook
}

// FavoriteAction reports the direction of a toggle.
type FavoriteAction string

const (
	FavoriteAdded   FavoriteAction = "added"
	FavoriteRemoved FavoriteAction = "removed"
)

// ToggleResult describes the outcome of a favourite toggle.
type ToggleResult struct {
	Action     FavoriteAction         `json:"action"`
	IsFavorite bool                   `json:"isFavorite"`
	Favorite   *entities.UserFavorite `json:"favorite,omitempty"`
}

// ShelfStats counts a user's shelf. ByStatus always carries every status.
type ShelfStats struct {
	UserID    string                           `json:"userId"`
	Total     int64                            `json:"total"`
	ByStatus  map[entities.ReadingStatus]int64 `json:"byStatus"`
	Favorites int64                            `json:"favorites"`
}
