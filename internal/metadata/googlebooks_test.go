package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesFixture = `{
  "kind": "books#volumes",
  "totalItems": 2,
  "items": [
    {
      "id": "vol-1",
      "volumeInfo": {
        "title": "The Hobbit",
        "authors": ["J.R.R. Tolkien"],
        "publisher": "Allen & Unwin",
        "description": "A hobbit goes on an adventure.",
        "categories": ["Juvenile Fiction"],
        "imageLinks": {"smallThumbnail": "http://img/s.jpg", "thumbnail": "http://img/t.jpg"},
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "0261103342"},
          {"type": "ISBN_13", "identifier": "9780261103344"}
        ]
      }
    },
    {
      "id": "vol-2",
      "volumeInfo": {"title": "Untitled Sequel"}
    }
  ]
}`

func TestGoogleBooksClient_SearchBySubject(t *testing.T) {
	var gotQuery, gotMax, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesFixture))
	}))
	defer server.Close()

	client := NewGoogleBooksClient(server.URL+"/", "secret")

	volumes, err := client.SearchBySubject(context.Background(), "fantasy")
	require.NoError(t, err)
	require.Len(t, volumes, 2)

	assert.Equal(t, "subject:fantasy", gotQuery)
	assert.Equal(t, "40", gotMax)
	assert.Equal(t, "secret", gotKey)

	first := volumes[0]
	assert.Equal(t, "vol-1", first.ID)
	assert.Equal(t, "The Hobbit", first.VolumeInfo.Title)
	assert.Equal(t, []string{"J.R.R. Tolkien"}, first.VolumeInfo.Authors)
	require.NotNil(t, first.VolumeInfo.ImageLinks)
	assert.Equal(t, "http://img/t.jpg", first.VolumeInfo.ImageLinks.Thumbnail)
	assert.Equal(t, []string{"0261103342", "9780261103344"}, first.VolumeInfo.ISBNs())

	assert.Nil(t, volumes[1].VolumeInfo.ImageLinks)
}

func TestGoogleBooksClient_NoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
	}))
	defer server.Close()

	volumes, err := NewGoogleBooksClient(server.URL, "").SearchBySubject(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, volumes)
	assert.Empty(t, volumes)
}

func TestGoogleBooksClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewGoogleBooksClient(server.URL, "").SearchBySubject(context.Background(), "fantasy")
			assert.Error(t, err)
		})
	}
}

func TestGoogleBooksClient_BlankSubject(t *testing.T) {
	_, err := NewGoogleBooksClient("http://unused", "").SearchBySubject(context.Background(), "  ")
	assert.Error(t, err)
}

func TestGoogleBooksClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoogleBooksClient(server.URL, "").SearchBySubject(ctx, "fantasy")
	assert.Error(t, err)
}
