// Package shelf provides database operations for per-user reading status.
//
// Every mutation is keyed on the (user_id, book_id) pair, which is the
// composite primary key of user_books.
//
// # Usage
//
//	repo := shelf.NewRepository(db)
//	row, created, err := repo.UpsertStatus(ctx, "u1", "b1", entities.ReadingStatusReading)
package shelf

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Columns projected for a user's shelf. Book columns are NULL when the book
// row has been removed.
const shelfColumns = "user_books.book_id AS book_id, books.title, books.description, " +
	"books.categories, books.authors, books.image_links, books.publisher, " +
	"user_books.status AS status, user_books.date_added AS date_added"

// Repository handles reading status database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelf repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertStatus sets the status for the pair, inserting the row when it does
// not exist yet. created reports which branch was taken.
func (r *Repository) UpsertStatus(ctx context.Context, userID, bookID string, status entities.ReadingStatus) (*entities.UserBook, bool, error) {
	var (
		row     entities.UserBook
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := entities.UserBook{UserID: userID, BookID: bookID, Status: status}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&insert)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0

		if !created {
			err := tx.Model(&entities.UserBook{}).
				Where("user_id = ? AND book_id = ?", userID, bookID).
				Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
			if err != nil {
				return err
			}
		}

		return tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&row).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &row, created, nil
}

// DeleteStatus removes the pair's row and returns what was deleted.
// Deleting an absent pair returns an empty slice.
func (r *Repository) DeleteStatus(ctx context.Context, userID, bookID string) ([]entities.UserBook, error) {
	deleted := make([]entities.UserBook, 0, 1)

	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&deleted).Error
	if err != nil {
		return nil, err
	}

	return deleted, nil
}

// GetStatus returns the pair's row, or an empty slice when none exists.
func (r *Repository) GetStatus(ctx context.Context, userID, bookID string) ([]entities.UserBook, error) {
	rows := make([]entities.UserBook, 0, 1)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Find(&rows).Error
	return rows, err
}

// GetUserBooks returns every book on the user's shelf joined with the catalog.
func (r *Repository) GetUserBooks(ctx context.Context, userID string) ([]entities.ShelfBook, error) {
	books := make([]entities.ShelfBook, 0)
	err := r.db.WithContext(ctx).
		Table("user_books").
		Select(shelfColumns).
		Joins("LEFT JOIN books ON books.id = user_books.book_id").
		Where("user_books.user_id = ?", userID).
		Order("user_books.date_added DESC, user_books.book_id ASC").
		Scan(&books).Error
	return books, err
}

// CountByStatus returns the number of books per status for a user.
func (r *Repository) CountByStatus(ctx context.Context, userID string) (map[entities.ReadingStatus]int64, error) {
	var rows []struct {
		Status entities.ReadingStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&entities.UserBook{}).
		Select("status, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.ReadingStatus]int64, len(entities.ReadingStatuses))
	for _, s := range entities.ReadingStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
