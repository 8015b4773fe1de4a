package entities

import "time"

// ReadingStatus is the single status a user holds for a book.
type ReadingStatus string

const (
	ReadingStatusReadingList ReadingStatus = "reading_list"
	ReadingStatusReading     ReadingStatus = "reading"
	ReadingStatusCompleted   ReadingStatus = "completed"
)

// ReadingStatuses lists every valid status.
var ReadingStatuses = []ReadingStatus{
	ReadingStatusReadingList,
	ReadingStatusReading,
	ReadingStatusCompleted,
}

// Valid reports whether s is one of the known statuses.
func (s ReadingStatus) Valid() bool {
	for _, known := range ReadingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// UserBook holds a user's reading status for a book. The composite primary
// key guarantees at most one row per (user, book) pair.
type UserBook struct {
	UserID    string        `gorm:"primaryKey;size:128" json:"userId"`
	BookID    string        `gorm:"primaryKey;size:64;index" json:"bookId"`
	Status    ReadingStatus `gorm:"size:20;not null" json:"status"`
	DateAdded time.Time     `gorm:"autoCreateTime" json:"dateAdded"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (UserBook) TableName() string {
	return "user_books"
}

// UserFavorite marks a book as a user's favourite. Rows are only ever
// inserted or deleted.
type UserFavorite struct {
	UserID    string    `gorm:"primaryKey;size:128" json:"userId"`
	BookID    string    `gorm:"primaryKey;size:64;index" json:"bookId"`
	DateAdded time.Time `gorm:"autoCreateTime" json:"dateAdded"`
}

func (UserFavorite) TableName() string {
	return "user_favorites"
}

// ShelfBook is the read-side view of a user's book joined with the catalog
// record. Book fields are nil when the book row no longer exists.
type ShelfBook struct {
	BookID      string        `json:"bookId"`
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Categories  []string      `gorm:"serializer:json" json:"categories"`
	Authors     []string      `gorm:"serializer:json" json:"authors"`
	ImageLinks  *ImageLinks   `gorm:"serializer:json" json:"imageLinks"`
	Publisher   *string       `json:"publisher"`
	Status      ReadingStatus `json:"status,omitempty"`
	DateAdded   time.Time     `json:"dateAdded"`
}
