package services

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// BookStore persists catalog records.
type BookStore interface {
	AddBook(ctx context.Context, book *entities.Book) (*entities.Book, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	GetBooksByCategory(ctx context.Context, categoryID string) ([]entities.Book, error)
	CountBooksByCategory(ctx context.Context, categoryID string) (int64, error)
	GetCategories(ctx context.Context) ([]entities.Category, error)
}

// ShelfStore persists reading status keyed on the (user, book) pair.
type ShelfStore interface {
	UpsertStatus(ctx context.Context, userID, bookID string, status entities.ReadingStatus) (*entities.UserBook, bool, error)
	DeleteStatus(ctx context.Context, userID, bookID string) ([]entities.UserBook, error)
	GetStatus(ctx context.Context, userID, bookID string) ([]entities.UserBook, error)
	GetUserBooks(ctx context.Context, userID string) ([]entities.ShelfBook, error)
	CountByStatus(ctx context.Context, userID string) (map[entities.ReadingStatus]int64, error)
}

// FavouritesStore persists favourite membership keyed on the (user, book) pair.
type FavouritesStore interface {
	Toggle(ctx context.Context, userID, bookID string) (bool, *entities.UserFavorite, error)
	GetFavorite(ctx context.Context, userID, bookID string) ([]entities.UserFavorite, error)
	GetFavorites(ctx context.Context, userID string) ([]entities.ShelfBook, error)
	GetFavouriteCount(ctx context.Context, userID string) (int64, error)
}

// UserStore persists users registered by the auth provider.
type UserStore interface {
	CreateUser(ctx context.Context, userID, email string) (*entities.User, error)
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	GetAllUsers(ctx context.Context) ([]entities.User, error)
}

// SubjectSearcher queries an external catalog by subject.
type SubjectSearcher interface {
	SearchBySubject(ctx context.Context, subject string) ([]metadata.Volume, error)
}

// DownloadSearcher looks up download links for a title.
type DownloadSearcher interface {
	Search(ctx context.Context, title string) ([]metadata.DownloadResult, error)
}

// ActivityLogger records shelf mutations and catalog fetches.
// Implementations must not block the caller.
type ActivityLogger interface {
	LogStatusChange(userID, bookID string, status entities.ReadingStatus, created bool, err error)
	LogStatusRemoval(userID, bookID string, removed int, err error)
	LogFavoriteToggle(userID, bookID string, added bool, err error)
	LogGenreFetch(genre string, fetched int, err error)
}

// SnapshotWriter stores raw upstream payloads.
type SnapshotWriter interface {
	SaveJSON(prefix string, data any) (string, error)
}

type noopActivity struct{}

func (noopActivity) LogStatusChange(string, string, entities.ReadingStatus, bool, error) {}
func (noopActivity) LogStatusRemoval(string, string, int, error)                         {}
func (noopActivity) LogFavoriteToggle(string, string, bool, error)                       {}
func (noopActivity) LogGenreFetch(string, int, error)                                    {}
