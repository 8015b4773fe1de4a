// Package favourites provides database operations for favourite books.
//
// This package implements the FavouritesStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.FavouritesStore = (*Repository)(nil)
//
// # Usage
//
//	repo := favourites.NewRepository(db)
//	added, favourite, err := repo.Toggle(ctx, "u1", "b1")
package favourites

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const favouriteColumns = "user_favorites.book_id AS book_id, books.title, books.description, " +
	"books.categories, books.authors, books.image_links, books.publisher, " +
	"user_favorites.date_added AS date_added"

// Repository handles all favourites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Toggle flips the favourite state of the pair. When a row existed it is
// removed and added is false; otherwise a row is inserted and returned.
func (r *Repository) Toggle(ctx context.Context, userID, bookID string) (bool, *entities.UserFavorite, error) {
	var (
		added     bool
		favourite *entities.UserFavorite
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&entities.UserFavorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		row := entities.UserFavorite{UserID: userID, BookID: bookID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}

		// A concurrent insert may have won; report the stored row.
		var stored entities.UserFavorite
		if err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&stored).Error; err != nil {
			return err
		}
		added = true
		favourite = &stored
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	return added, favourite, nil
}

// GetFavorite returns the pair's row, or an empty slice when not favourited.
func (r *Repository) GetFavorite(ctx context.Context, userID, bookID string) ([]entities.UserFavorite, error) {
	rows := make([]entities.UserFavorite, 0, 1)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Find(&rows).Error
	return rows, err
}

// GetFavorites returns the user's favourite books joined with the catalog.
func (r *Repository) GetFavorites(ctx context.Context, userID string) ([]entities.ShelfBook, error) {
	books := make([]entities.ShelfBook, 0)
	err := r.db.WithContext(ctx).
		Table("user_favorites").
		Select(favouriteColumns).
		Joins("LEFT JOIN books ON books.id = user_favorites.book_id").
		Where("user_favorites.user_id = ?", userID).
		Order("user_favorites.date_added DESC, user_favorites.book_id ASC").
		Scan(&books).Error
	return books, err
}

// GetFavouriteCount returns how many books the user has favourited.
func (r *Repository) GetFavouriteCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.UserFavorite{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
