package config

const (
	// DefaultDatabasePath is the default sqlite file used when DATABASE_URL is not set
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultGenreFallbackThreshold is the number of local books a genre needs
	// before the external catalog is no longer queried
	DefaultGenreFallbackThreshold = 10

	// DefaultChatModel is the Gemini model used for book chats
	DefaultChatModel = "gemini-2.0-flash-lite"

	DefaultGoogleBooksBaseURL = "https://www.googleapis.com/books/v1"
)
