package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/chat"
	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/database/shelf"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.BookStore = (*books.Repository)(nil)
var _ services.ShelfStore = (*shelf.Repository)(nil)
var _ services.FavouritesStore = (*favourites.Repository)(nil)
var _ services.UserStore = (*users.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ services.SubjectSearcher = (*metadata.GoogleBooksClient)(nil)
var _ services.DownloadSearcher = (*metadata.LibgenClient)(nil)
var _ chat.Backend = (*chat.GeminiBackend)(nil)

// =============================================================================
// Activity Log
// =============================================================================

var _ services.ActivityLogger = (*audit.Service)(nil)
var _ services.SnapshotWriter = (*audit.Auditor)(nil)
var _ http.ActivityReader = (*audit.Service)(nil)
var _ tasks.ActivityPruner = (*audit.Service)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ http.CatalogService = (*services.CatalogService)(nil)
var _ http.ShelfService = (*services.ShelfService)(nil)
var _ http.UserService = (*services.UserService)(nil)
var _ http.ChatService = (*chat.Service)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.GenreFetcher = (*services.CatalogService)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ cli.GenreFetcher = (*services.CatalogService)(nil)
