package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type fakeFetcher struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeFetcher) FetchByGenre(_ context.Context, genre string) ([]entities.Book, error) {
	f.calls = append(f.calls, genre)
	if f.fail[genre] {
		return nil, errors.New("upstream down")
	}
	return []entities.Book{{ID: genre + "-1", Title: "Book"}}, nil
}

func TestFetchGenreCommand_ParseFlags(t *testing.T) {
	cmd := NewFetchGenreCommand()

	require.NoError(t, cmd.ParseFlags([]string{"-genre", " fantasy, ,science fiction "}))

	assert.Equal(t, []string{"fantasy", "science fiction"}, cmd.Genres)
}

func TestFetchGenreCommand_ParseFlagsRequiresGenre(t *testing.T) {
	err := NewFetchGenreCommand().ParseFlags([]string{"-verbose"})

	assert.ErrorContains(t, err, "-genre")
}

func TestFetchGenreCommand_Fetch(t *testing.T) {
	t.Run("fetches every genre", func(t *testing.T) {
		cmd := &FetchGenreCommand{Genres: []string{"fantasy", "mystery"}}
		fetcher := &fakeFetcher{}

		require.NoError(t, cmd.fetch(context.Background(), fetcher))
		assert.Equal(t, []string{"fantasy", "mystery"}, fetcher.calls)
	})

	t.Run("continues past failures and reports them", func(t *testing.T) {
		cmd := &FetchGenreCommand{Genres: []string{"fantasy", "mystery"}, Verbose: true}
		fetcher := &fakeFetcher{fail: map[string]bool{"fantasy": true}}

		err := cmd.fetch(context.Background(), fetcher)

		assert.EqualError(t, err, "1 of 2 genres failed")
		assert.Equal(t, []string{"fantasy", "mystery"}, fetcher.calls)
	})
}
