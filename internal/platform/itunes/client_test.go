package itunes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estante/internal/search"
)

func TestITunesSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "memórias póstumas", r.URL.Query().Get("term"))
		assert.Equal(t, "ebook", r.URL.Query().Get("entity"))
		assert.Equal(t, "br", r.URL.Query().Get("country"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"trackId": 9901,
				"trackName": "Memórias Póstumas de Brás Cubas",
				"artistName": "Machado de Assis",
				"artworkUrl100": "https://is1.mzstatic.com/image/100x100bb.jpg",
				"description": "Um defunto autor.",
				"releaseDate": "2012-05-15T07:00:00Z",
				"genres": ["Ficção e literatura", "Livros", "Clássicos", "Romance"]
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	books, err := c.Search(context.Background(), search.Query{Text: "memórias póstumas"})
	require.NoError(t, err)
	require.Len(t, books, 1)

	b := books[0]
	assert.Equal(t, "itunes-9901", b.ID)
	assert.Equal(t, "Memórias Póstumas de Brás Cubas", b.Title)
	assert.Equal(t, "Machado de Assis", b.Author)
	assert.Equal(t, "https://is1.mzstatic.com/image/300x300bb.jpg", b.Cover)
	assert.Equal(t, "2012", b.PublishedDate)
	assert.Equal(t, []string{"Ficção e literatura", "Livros", "Clássicos"}, b.Categories)
	assert.Zero(t, b.PageCount)
	assert.Empty(t, b.ISBN)
	assert.Equal(t, search.SourceITunes, b.Source)
}

func TestITunesArtworkFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"resultCount": 2,
			"results": [
				{"trackId": 1, "trackName": "Small", "artistName": "A", "artworkUrl60": "https://img/60x60bb.jpg"},
				{"trackId": 2, "trackName": "None", "artistName": "B"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	books, err := c.Search(context.Background(), search.Query{Text: "anything"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "https://img/300x300bb.jpg", books[0].Cover)
	assert.Contains(t, books[1].Cover, "via.placeholder.com")
	assert.Equal(t, search.UnknownDate, books[1].PublishedDate)
}

func TestITunesBlankQuerySkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	books, err := c.Search(context.Background(), search.Query{Text: ""})
	require.NoError(t, err)
	assert.Nil(t, books)
	assert.False(t, called)
}

func TestITunesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), search.Query{Text: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
