package entities

import "time"

// ImageLinks holds cover thumbnails as returned by the catalog APIs.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// Book is a catalog record. ID is assigned by the external catalog and never
// changes once stored.
type Book struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id" validate:"notblank,max=64"`
	Title       string      `gorm:"type:text;not null" json:"title" validate:"notblank"`
	Authors     []string    `gorm:"type:text;serializer:json" json:"authors"`
	Description *string     `gorm:"type:text" json:"description"`
	ImageLinks  *ImageLinks `gorm:"type:text;serializer:json" json:"imageLinks"`
	Publisher   *string     `gorm:"size:256" json:"publisher"`
	Categories  []string    `gorm:"type:text;serializer:json" json:"categories"`
	ISBNValue   []string    `gorm:"column:isbn_value;type:text;serializer:json" json:"isbnValue"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (Book) TableName() string {
	return "books"
}

// Category is a normalized genre label. ID is the slug of Name.
type Category struct {
	ID   string `gorm:"primaryKey;size:128" json:"id"`
	Name string `gorm:"uniqueIndex;size:256;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

// BookCategory joins books and categories.
type BookCategory struct {
	BookID     string `gorm:"primaryKey;size:64;index:book_categories_book_idx" json:"bookId"`
	CategoryID string `gorm:"primaryKey;size:128;index:book_categories_category_idx" json:"categoryId"`
}

func (BookCategory) TableName() string {
	return "book_categories"
}

// User is identified by the ID issued by the auth provider.
type User struct {
	UserID    string    `gorm:"column:user_id;primaryKey;size:128" json:"userId" validate:"notblank,max=128"`
	Email     string    `gorm:"size:255;not null" json:"email" validate:"required,email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
