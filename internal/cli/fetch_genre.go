package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// GenreFetcher stocks the local catalog for a genre.
type GenreFetcher interface {
	FetchByGenre(ctx context.Context, genre string) ([]entities.Book, error)
}

// FetchGenreCommand stocks the local catalog for one or more genres without
// starting the server.
type FetchGenreCommand struct {
	Genres  []string
	Timeout time.Duration
	Verbose bool
}

func NewFetchGenreCommand() *FetchGenreCommand {
	return &FetchGenreCommand{}
}

func (cmd *FetchGenreCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("fetch-genre", flag.ExitOnError)

	var genres string
	fs.StringVar(&genres, "genre", "", "Comma-separated genres to fetch (required)")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Overall timeout")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s fetch-genre -genre <name>[,<name>...] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch books for a genre into the local catalog. Genres that already have\n")
		fmt.Fprintf(os.Stderr, "GENRE_FALLBACK_THRESHOLD books are served from the database.\n\n")
		fmt.Fprintf(os.Stderr, "The database is taken from DATABASE_URL or DATABASE_PATH.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s fetch-genre -genre fantasy\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s fetch-genre -genre \"science fiction,mystery\" -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, genre := range strings.Split(genres, ",") {
		if genre = strings.TrimSpace(genre); genre != "" {
			cmd.Genres = append(cmd.Genres, genre)
		}
	}
	if len(cmd.Genres) == 0 {
		return fmt.Errorf("required flag -genre not provided")
	}

	return nil
}

func (cmd *FetchGenreCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.Open(cfg.Database.DSN(), logger.Warn)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog := entrypoint.NewCatalogService(cfg, db, nil)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	return cmd.fetch(ctx, catalog)
}

func (cmd *FetchGenreCommand) fetch(ctx context.Context, fetcher GenreFetcher) error {
	var failed int
	for _, genre := range cmd.Genres {
		books, err := fetcher.FetchByGenre(ctx, genre)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", genre, err)
			failed++
			continue
		}

		fmt.Printf("%s: %d books\n", genre, len(books))
		if cmd.Verbose {
			for i, book := range books {
				author := strings.Join(book.Authors, ", ")
				if author == "" {
					author = "(no author)"
				}
				fmt.Printf("  %d. %q by %s\n", i+1, book.Title, author)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d genres failed", failed, len(cmd.Genres))
	}
	return nil
}
