package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// UserService registers and looks up users.
type UserService struct {
	users     UserStore
	validator *validation.Validator
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users, validator: validation.New()}
}

// AddUser stores a user issued by the auth provider.
func (s *UserService) AddUser(ctx context.Context, req UserRequest) (*entities.User, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, req.UserID, req.Email)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to add user")
	}
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.Validation("userId is required")
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, domainerrors.Storage(err, "failed to get user")
	}
	return user, nil
}

// ListUsers returns every registered user, oldest first.
func (s *UserService) ListUsers(ctx context.Context) ([]entities.User, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to list users")
	}
	return users, nil
}
