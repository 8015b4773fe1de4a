package services

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/utils"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// CatalogConfig wires the catalog service.
type CatalogConfig struct {
	Books     BookStore
	Subjects  SubjectSearcher
	Downloads DownloadSearcher
	Activity  ActivityLogger // optional
	Snapshots SnapshotWriter // optional

	// GenreFallbackThreshold is the minimum number of local books a genre
	// needs before the external catalog is skipped.
	GenreFallbackThreshold int
}

// CatalogService manages book records and external catalog lookups.
type CatalogService struct {
	books     BookStore
	subjects  SubjectSearcher
	downloads DownloadSearcher
	activity  ActivityLogger
	snapshots SnapshotWriter
	validator *validation.Validator
	threshold int64
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(cfg CatalogConfig) *CatalogService {
	threshold := cfg.GenreFallbackThreshold
	if threshold <= 0 {
		threshold = config.DefaultGenreFallbackThreshold
	}

	activity := cfg.Activity
	if activity == nil {
		activity = noopActivity{}
	}

	return &CatalogService{
		books:     cfg.Books,
		subjects:  cfg.Subjects,
		downloads: cfg.Downloads,
		activity:  activity,
		snapshots: cfg.Snapshots,
		validator: validation.New(),
		threshold: int64(threshold),
	}
}

// AddBook stores a book. Re-adding an existing ID returns the stored row
// unchanged.
func (s *CatalogService) AddBook(ctx context.Context, book *entities.Book) (*entities.Book, error) {
	if book == nil {
		return nil, domainerrors.Validation("book is required")
	}
	book.ID = strings.TrimSpace(book.ID)
	if err := s.validator.Validate(book); err != nil {
		return nil, err
	}

	stored, err := s.books.AddBook(ctx, book)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to add book")
	}
	return stored, nil
}

// GetBook returns the book with the given ID.
func (s *CatalogService) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domainerrors.Validation("bookId is required")
	}

	book, err := s.books.GetBook(ctx, id)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.NotFound("Book not found")
		}
		return nil, domainerrors.Storage(err, "failed to get book")
	}
	return book, nil
}

// FetchByGenre returns local books for a genre, topping the catalog up from
// the external subject search when fewer than the threshold are stored.
// Any persistence failure aborts the whole batch.
func (s *CatalogService) FetchByGenre(ctx context.Context, genre string) ([]entities.Book, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, domainerrors.Validation("Genre is required")
	}
	categoryID := utils.Slugify(genre)
	if categoryID == "" {
		return nil, domainerrors.Validationf("genre %q has no letters or digits", genre)
	}

	count, err := s.books.CountBooksByCategory(ctx, categoryID)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to count books by genre")
	}

	if count >= s.threshold {
		books, err := s.books.GetBooksByCategory(ctx, categoryID)
		if err != nil {
			return nil, domainerrors.Storage(err, "failed to list books by genre")
		}
		return books, nil
	}

	log.Printf("Genre %q has %d local books (threshold %d), fetching from external catalog", genre, count, s.threshold)

	fetched, err := s.fetchFromCatalog(ctx, genre)
	s.activity.LogGenreFetch(genre, len(fetched), err)
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

func (s *CatalogService) fetchFromCatalog(ctx context.Context, genre string) ([]entities.Book, error) {
	volumes, err := s.subjects.SearchBySubject(ctx, genre)
	if err != nil {
		return nil, domainerrors.Upstream(err, "failed to fetch books from external catalog")
	}

	if s.snapshots != nil {
		if _, err := s.snapshots.SaveJSON("genre-"+utils.Slugify(genre), volumes); err != nil {
			log.Printf("Failed to save genre snapshot: %v", err)
		}
	}

	fetched := make([]entities.Book, 0, len(volumes))
	for _, volume := range volumes {
		book, ok := volumeToBook(volume, genre)
		if !ok {
			continue
		}
		// Catalog IDs follow the same rules as books added directly
		if err := s.validator.Validate(&book); err != nil {
			log.Printf("Skipping volume %.64q from external catalog: %v", book.ID, err)
			continue
		}
		if _, err := s.books.AddBook(ctx, &book); err != nil {
			return nil, domainerrors.Storage(err, "failed to save fetched book "+book.ID)
		}
		fetched = append(fetched, book)
	}
	return fetched, nil
}

// GetCategories lists every genre known to the local catalog.
func (s *CatalogService) GetCategories(ctx context.Context) ([]entities.Category, error) {
	categories, err := s.books.GetCategories(ctx)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to list categories")
	}
	return categories, nil
}

// SearchDownloads relays a title search to the download catalog.
func (s *CatalogService) SearchDownloads(ctx context.Context, title string) ([]metadata.DownloadResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainerrors.Validation("title is required")
	}

	results, err := s.downloads.Search(ctx, title)
	if err != nil {
		return nil, domainerrors.Upstream(err, "Error fetching book details")
	}
	return results, nil
}

// volumeToBook maps an external volume into a Book, adding genre to its
// categories. Volumes without an ID or title are rejected.
func volumeToBook(v metadata.Volume, genre string) (entities.Book, bool) {
	info := v.VolumeInfo
	id := strings.TrimSpace(v.ID)
	title := strings.TrimSpace(info.Title)
	if id == "" || title == "" {
		return entities.Book{}, false
	}

	book := entities.Book{
		ID:         id,
		Title:      title,
		Authors:    utils.UniqueStrings(info.Authors),
		Categories: utils.UniqueStrings(info.Categories, []string{genre}),
		ISBNValue:  info.ISBNs(),
	}
	if info.Description != "" {
		description := info.Description
		book.Description = &description
	}
	if info.Publisher != "" {
		publisher := info.Publisher
		book.Publisher = &publisher
	}
	if info.ImageLinks != nil {
		book.ImageLinks = &entities.ImageLinks{
			SmallThumbnail: info.ImageLinks.SmallThumbnail,
			Thumbnail:      info.ImageLinks.Thumbnail,
		}
	}
	return book, true
}
