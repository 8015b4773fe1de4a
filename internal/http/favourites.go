package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/services"
)

type FavouritesController struct {
	shelf ShelfService
}

func NewFavouritesController(shelf ShelfService) *FavouritesController {
	return &FavouritesController{shelf: shelf}
}

// ToggleFavorite flips the favourite flag of a book for a user.
// POST /api/books/toggle_favorite
func (fc *FavouritesController) ToggleFavorite(c *gin.Context) {
	var req services.PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := fc.shelf.ToggleFavorite(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "toggle favourite")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckFavorite returns the favourite row for a pair, or an empty list.
// GET /api/books/check_favorite/:userId/:bookId
func (fc *FavouritesController) CheckFavorite(c *gin.Context) {
	rows, err := fc.shelf.CheckFavorite(c.Request.Context(), pairFromPath(c))
	if err != nil {
		respondError(c, err, "check favourite")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListFavorites lists a user's favourite books.
// GET /api/books/get_favorites/:userId
func (fc *FavouritesController) ListFavorites(c *gin.Context) {
	books, err := fc.shelf.GetFavorites(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, "list favourites")
		return
	}
	c.JSON(http.StatusOK, books)
}
