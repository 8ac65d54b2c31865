package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estante/internal/search"
)

const volumesFixture = `{
	"totalItems": 2,
	"items": [
		{
			"id": "abc123",
			"volumeInfo": {
				"title": "Dom Casmurro",
				"authors": ["Machado de Assis"],
				"publisher": "Editora Garnier",
				"publishedDate": "1899",
				"description": "Bentinho e Capitu.",
				"pageCount": 256,
				"categories": ["Fiction", "Classics"],
				"industryIdentifiers": [
					{"type": "ISBN_13", "identifier": "9788535902778"},
					{"type": "ISBN_10", "identifier": "8535902775"}
				],
				"imageLinks": {
					"smallThumbnail": "http://books.google.com/small.jpg",
					"thumbnail": "http://books.google.com/thumb.jpg"
				}
			}
		},
		{
			"id": "bare456",
			"volumeInfo": {}
		}
	]
}`

func TestGoogleBooksSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/volumes", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "20", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "books", r.URL.Query().Get("printType"))
		assert.Equal(t, "pt", r.URL.Query().Get("langRestrict"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesFixture))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	books, err := c.Search(context.Background(), search.Query{Text: "Dom Casmurro"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "Dom Casmurro", gotQuery)

	first := books[0]
	assert.Equal(t, "google-abc123", first.ID)
	assert.Equal(t, "Dom Casmurro", first.Title)
	assert.Equal(t, "Machado de Assis", first.Author)
	assert.Equal(t, "http://books.google.com/thumb.jpg", first.Cover)
	assert.Equal(t, "9788535902778", first.ISBN)
	assert.Equal(t, search.SourceGoogleBooks, first.Source)
	// Exact title match plus Portuguese publisher keyword.
	assert.Equal(t, 120, first.RelevanceScore)
}

func TestGoogleBooksDefaultsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(volumesFixture))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	books, err := c.Search(context.Background(), search.Query{Text: "anything"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	bare := books[1]
	assert.Equal(t, search.UnknownTitle, bare.Title)
	assert.Equal(t, search.UnknownAuthor, bare.Author)
	assert.Equal(t, search.UnknownPublisher, bare.Publisher)
	assert.Equal(t, search.UnknownDate, bare.PublishedDate)
	assert.Equal(t, search.NoDescription, bare.Description)
	assert.Empty(t, bare.ISBN)
	assert.NotNil(t, bare.Categories)
	assert.Contains(t, bare.Cover, "via.placeholder.com")
}

func TestGoogleBooksISBNQueryRewrite(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"totalItems":0,"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), search.Query{Text: "978-85-359-0277-5"})
	require.NoError(t, err)
	assert.Equal(t, "isbn:978-85-359-0277-5", gotQuery)
}

func TestGoogleBooksAuthorMode(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"totalItems":0,"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), search.Query{Text: "Clarice Lispector", Mode: search.ModeByAuthor})
	require.NoError(t, err)
	assert.Equal(t, `inauthor:"Clarice Lispector"`, gotQuery)
}

func TestGoogleBooksBlankQuerySkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	books, err := c.Search(context.Background(), search.Query{Text: "  "})
	require.NoError(t, err)
	assert.Nil(t, books)
	assert.False(t, called)
}

func TestGoogleBooksErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), search.Query{Text: "dom casmurro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
