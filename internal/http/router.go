package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Catalog endpoints
	if cfg.Catalog != nil {
		booksController := NewBooksController(cfg.Catalog, cfg.TaskQueue)
		router.GET("/api/book/:title", booksController.SearchDownloads)
		router.GET("/api/books/download_link", booksController.SearchDownloads)
		router.POST("/api/books/add_book", booksController.AddBook)
		router.GET("/api/books/get_book", booksController.GetBook)
		router.GET("/api/books/fetch_by_genre/:genre", booksController.FetchByGenre)
		router.GET("/api/categories", booksController.ListCategories)
		if cfg.TaskQueue != nil {
			router.POST("/api/books/fetch_by_genre/:genre/refresh", booksController.RefreshGenre)
		}
	}

	// Shelf and favourites endpoints
	if cfg.Shelf != nil {
		shelfController := NewShelfController(cfg.Shelf)
		router.GET("/api/books/check_status/:userId/:bookId", shelfController.CheckStatus)
		router.POST("/api/books/update_book_status", shelfController.UpdateStatus)
		router.POST("/api/books/remove_book_status", shelfController.RemoveStatus)
		router.GET("/api/books/get_user_books/:userId", shelfController.GetUserBooks)

		favouritesController := NewFavouritesController(cfg.Shelf)
		router.POST("/api/books/toggle_favorite", favouritesController.ToggleFavorite)
		router.GET("/api/books/check_favorite/:userId/:bookId", favouritesController.CheckFavorite)
		router.GET("/api/books/get_favorites/:userId", favouritesController.ListFavorites)
		router.GET("/api/users/:userId/stats", shelfController.GetStats)
	}

	// User endpoints
	if cfg.Users != nil {
		usersController := NewUsersController(cfg.Users, cfg.Activity)
		router.POST("/api/users/add_user", usersController.AddUser)
		router.GET("/api/users", usersController.ListUsers)
		router.GET("/api/users/get_user", usersController.GetUser)
		if cfg.Activity != nil {
			router.GET("/api/users/:userId/activity", usersController.ListActivity)
		}
	}

	// Chat endpoint
	if cfg.Chat != nil {
		chatController := NewChatController(cfg.Chat)
		router.POST("/api/chat", chatController.Chat)
	}

	// Task status endpoint
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}

// NewHandler returns the router wrapped in the CORS handler when origins are configured.
func NewHandler(cfg RouterConfig) http.Handler {
	router := NewRouter(cfg)
	if len(cfg.AllowedOrigins) == 0 {
		return router
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})(router)
}
