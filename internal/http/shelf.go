package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

// ShelfService defines per-user reading status and favourite operations.
type ShelfService interface {
	UpdateStatus(ctx context.Context, req services.StatusRequest) (*services.StatusUpdate, error)
	RemoveStatus(ctx context.Context, req services.PairRequest) ([]entities.UserBook, error)
	CheckStatus(ctx context.Context, req services.PairRequest) ([]entities.UserBook, error)
	ToggleFavorite(ctx context.Context, req services.PairRequest) (*services.ToggleResult, error)
	CheckFavorite(ctx context.Context, req services.PairRequest) ([]entities.UserFavorite, error)
	GetUserBooks(ctx context.Context, userID string) ([]entities.ShelfBook, error)
	GetFavorites(ctx context.Context, userID string) ([]entities.ShelfBook, error)
	GetStats(ctx context.Context, userID string) (*services.ShelfStats, error)
}

type ShelfController struct {
	shelf ShelfService
}

func NewShelfController(shelf ShelfService) *ShelfController {
	return &ShelfController{shelf: shelf}
}

// UpdateStatus sets the reading status of a book for a user.
// POST /api/books/update_book_status
func (sc *ShelfController) UpdateStatus(c *gin.Context) {
	var req services.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	update, err := sc.shelf.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "update status")
		return
	}
	c.JSON(http.StatusOK, update)
}

// RemoveStatus clears the reading status of a book for a user.
// POST /api/books/remove_book_status
func (sc *ShelfController) RemoveStatus(c *gin.Context) {
	var req services.PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	removed, err := sc.shelf.RemoveStatus(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "remove status")
		return
	}
	c.JSON(http.StatusOK, removed)
}

// CheckStatus returns the status row for a pair, or an empty list.
// GET /api/books/check_status/:userId/:bookId
func (sc *ShelfController) CheckStatus(c *gin.Context) {
	rows, err := sc.shelf.CheckStatus(c.Request.Context(), pairFromPath(c))
	if err != nil {
		respondError(c, err, "check status")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetUserBooks lists a user's shelf with book details.
// GET /api/books/get_user_books/:userId
func (sc *ShelfController) GetUserBooks(c *gin.Context) {
	books, err := sc.shelf.GetUserBooks(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, "get user books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetStats returns per-status book counts and the favourite count.
// GET /api/users/:userId/stats
func (sc *ShelfController) GetStats(c *gin.Context) {
	stats, err := sc.shelf.GetStats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, "get user stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func pairFromPath(c *gin.Context) services.PairRequest {
	return services.PairRequest{
		UserID: c.Param("userId"),
		BookID: c.Param("bookId"),
	}
}
