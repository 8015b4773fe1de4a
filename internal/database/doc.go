// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, driver selection, migrations
//	├── books/           # Catalog records and category links
//	├── shelf/           # Per-user reading status and the shelf projection
//	├── favourites/      # Per-user favourites and the favourites projection
//	├── users/           # User records
//	└── audit/           # Activity log
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookshelf.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	shelfRepo := shelf.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBook(ctx, "zyTCAlFPjgYC")
//	row, created, err := shelfRepo.UpsertStatus(ctx, userID, bookID, entities.ReadingStatusReading)
//
// # Pair-key mutations
//
// user_books and user_favorites use (user_id, book_id) as their primary key.
// Repositories mutate them inside a single transaction with
// ON CONFLICT DO NOTHING so concurrent callers never create duplicate rows.
//
// # Drivers
//
// NewDatabase accepts a sqlite file path or a postgres:// URL. JSON columns
// use GORM's json serializer on text columns so the schema is identical on
// both drivers.
package database
