package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// CatalogService defines the catalog operations exposed over HTTP.
type CatalogService interface {
	AddBook(ctx context.Context, book *entities.Book) (*entities.Book, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	FetchByGenre(ctx context.Context, genre string) ([]entities.Book, error)
	SearchDownloads(ctx context.Context, title string) ([]metadata.DownloadResult, error)
	GetCategories(ctx context.Context) ([]entities.Category, error)
}

type BooksController struct {
	catalog CatalogService
	queue   TaskQueue
}

func NewBooksController(catalog CatalogService, queue TaskQueue) *BooksController {
	return &BooksController{catalog: catalog, queue: queue}
}

// SearchDownloads looks up download links for a title.
// GET /api/book/:title
// GET /api/books/download_link?title=
func (bc *BooksController) SearchDownloads(c *gin.Context) {
	title := c.Param("title")
	if title == "" {
		title = c.Query("title")
	}

	results, err := bc.catalog.SearchDownloads(c.Request.Context(), title)
	if err != nil {
		respondError(c, err, "search downloads")
		return
	}
	c.JSON(http.StatusOK, results)
}

// AddBook stores a book record. Re-adding an existing ID returns the stored row.
// POST /api/books/add_book
func (bc *BooksController) AddBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	stored, err := bc.catalog.AddBook(c.Request.Context(), &book)
	if err != nil {
		respondError(c, err, "add book")
		return
	}
	c.JSON(http.StatusOK, stored)
}

// GetBook returns a single book.
// GET /api/books/get_book?bookId=
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.catalog.GetBook(c.Request.Context(), c.Query("bookId"))
	if err != nil {
		respondError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// FetchByGenre returns books for a genre, topping up from the external catalog
// when the local shelf is thin.
// GET /api/books/fetch_by_genre/:genre
func (bc *BooksController) FetchByGenre(c *gin.Context) {
	genre := c.Param("genre")

	books, err := bc.catalog.FetchByGenre(c.Request.Context(), genre)
	if err != nil {
		respondError(c, err, "fetch by genre")
		return
	}
	if len(books) == 0 {
		respondNotFound(c, fmt.Sprintf("No books found for genre: %s", genre))
		return
	}
	c.JSON(http.StatusOK, books)
}

// RefreshGenre schedules a background top-up for a genre.
// POST /api/books/fetch_by_genre/:genre/refresh
func (bc *BooksController) RefreshGenre(c *gin.Context) {
	genre := strings.TrimSpace(c.Param("genre"))
	if genre == "" {
		respondBadRequest(c, "Genre is required")
		return
	}

	taskID, err := bc.queue.Enqueue(c.Request.Context(), tasks.FetchGenreTask{Genre: genre})
	if err != nil {
		respondError(c, err, "enqueue genre fetch")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "genre fetch scheduled",
		"task_id": taskID,
		"genre":   genre,
	})
}

// ListCategories returns every genre in the local catalog.
// GET /api/categories
func (bc *BooksController) ListCategories(c *gin.Context) {
	categories, err := bc.catalog.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}
