// Package books provides database operations for catalog records.
//
// This package implements the BookStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.AddBook(ctx, &entities.Book{ID: "b1", Title: "Dune"})
package books

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/utils"
)

// Repository handles all book and category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddBook inserts a book together with its categories and category links.
// Re-adding an existing ID is a no-op; the stored row is returned either way.
func (r *Repository) AddBook(ctx context.Context, book *entities.Book) (*entities.Book, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(book).Error; err != nil {
			return fmt.Errorf("insert book %s: %w", book.ID, err)
		}

		for _, name := range book.Categories {
			categoryID := utils.Slugify(name)
			if categoryID == "" {
				continue
			}

			category := entities.Category{ID: categoryID, Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
				return fmt.Errorf("upsert category %s: %w", categoryID, err)
			}

			link := entities.BookCategory{BookID: book.ID, CategoryID: categoryID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return fmt.Errorf("link book %s to category %s: %w", book.ID, categoryID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBook(ctx, book.ID)
}

// GetBook retrieves a book by its external ID.
// Returns gorm.ErrRecordNotFound when no row matches.
func (r *Repository) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBooksByCategory returns every book linked to the given category slug.
func (r *Repository) GetBooksByCategory(ctx context.Context, categoryID string) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN book_categories ON book_categories.book_id = books.id").
		Where("book_categories.category_id = ?", categoryID).
		Order("books.created_at ASC, books.id ASC").
		Find(&books).Error
	return books, err
}

// CountBooksByCategory returns how many books are linked to the category slug.
func (r *Repository) CountBooksByCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.BookCategory{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// GetCategories returns all known categories ordered by name.
func (r *Repository) GetCategories(ctx context.Context) ([]entities.Category, error) {
	categories := make([]entities.Category, 0)
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}
