package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

// UserService defines user registration and lookup.
type UserService interface {
	AddUser(ctx context.Context, req services.UserRequest) (*entities.User, error)
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
}

// ActivityReader lists recorded activity events.
type ActivityReader interface {
	GetEvents(ctx context.Context, userID string, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(ctx context.Context, eventType entities.AuditEventType, userID string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type UsersController struct {
	users    UserService
	activity ActivityReader
}

func NewUsersController(users UserService, activity ActivityReader) *UsersController {
	return &UsersController{users: users, activity: activity}
}

// AddUser registers a user issued by the auth provider.
// POST /api/users/add_user
func (uc *UsersController) AddUser(c *gin.Context) {
	var req services.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := uc.users.AddUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "add user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser returns a registered user.
// GET /api/users/get_user?userId=
func (uc *UsersController) GetUser(c *gin.Context) {
	user, err := uc.users.GetUser(c.Request.Context(), c.Query("userId"))
	if err != nil {
		respondError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers returns every registered user.
// GET /api/users
func (uc *UsersController) ListUsers(c *gin.Context) {
	users, err := uc.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListActivity returns a page of the user's activity log, newest first.
// Optional ?type= filters by event type.
// GET /api/users/:userId/activity
func (uc *UsersController) ListActivity(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		respondBadRequest(c, "userId is required")
		return
	}

	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType := c.Query("type"); eventType != "" {
		events, total, err = uc.activity.GetEventsByType(c.Request.Context(), entities.AuditEventType(eventType), userID, limit, offset)
	} else {
		events, total, err = uc.activity.GetEvents(c.Request.Context(), userID, limit, offset)
	}
	if err != nil {
		respondError(c, err, "list activity")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}
