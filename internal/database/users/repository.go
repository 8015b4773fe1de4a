// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUser(ctx, "auth0|123")
package users

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser stores a user keyed by the auth provider's ID. Registering the
// same ID twice keeps the first row and returns it.
func (r *Repository) CreateUser(ctx context.Context, userID, email string) (*entities.User, error) {
	user := &entities.User{UserID: userID, Email: email}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(user).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(user).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
// Returns gorm.ErrRecordNotFound when no row matches.
func (r *Repository) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsers returns all users ordered by registration time.
func (r *Repository) GetAllUsers(ctx context.Context) ([]entities.User, error) {
	users := make([]entities.User, 0)
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, err
}
