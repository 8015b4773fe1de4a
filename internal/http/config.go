package http

import (
	"github.com/mrlokans/bookshelf/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Catalog  CatalogService
	Shelf    ShelfService
	Users    UserService

	// Activity log reader (optional)
	Activity ActivityReader

	// Book chat (optional, disabled without an API key)
	Chat ChatService

	// Task queue (optional)
	TaskQueue TaskQueue

	// Allowed CORS origins; empty disables the CORS handler
	AllowedOrigins []string

	// Application info
	Version string
}
