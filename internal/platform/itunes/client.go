// Package itunes searches the iTunes store catalog for ebooks sold in the
// Brazilian storefront.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"estante/internal/search"
)

const (
	defaultBaseURL = "https://itunes.apple.com"
	maxResults     = 20
	// The store has no page counts; genres are plentiful, keep a few.
	maxGenres = 3
)

// Config carries the injectable pieces of the client; zero values fall back
// to production defaults.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: cfg.BaseURL, http: cfg.HTTPClient}
}

func (c *Client) Name() string { return "itunes" }

// storeResponse matches GET /search.
type storeResponse struct {
	ResultCount int     `json:"resultCount"`
	Results     []track `json:"results"`
}

type track struct {
	TrackID       int64    `json:"trackId"`
	TrackName     string   `json:"trackName"`
	ArtistName    string   `json:"artistName"`
	ArtworkURL100 string   `json:"artworkUrl100"`
	ArtworkURL60  string   `json:"artworkUrl60"`
	Description   string   `json:"description"`
	ReleaseDate   string   `json:"releaseDate"`
	Genres        []string `json:"genres"`
}

func (c *Client) Search(ctx context.Context, q search.Query) ([]search.Book, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, nil
	}

	// The store has no author-scoped query syntax; allArtistTerm already
	// biases matching toward the artist field, so both modes send the raw
	// text.
	params := url.Values{}
	params.Set("term", text)
	params.Set("entity", "ebook")
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("country", "br")
	params.Set("attribute", "allArtistTerm")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("itunes request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes: unexpected status code: %d", resp.StatusCode)
	}

	var res storeResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("itunes: decode response: %w", err)
	}

	books := make([]search.Book, 0, len(res.Results))
	for _, t := range res.Results {
		b := toBook(t)
		b.RelevanceScore = search.Score(b, text)
		books = append(books, b)
	}
	return books, nil
}

func toBook(t track) search.Book {
	cover := ""
	switch {
	case t.ArtworkURL100 != "":
		cover = strings.Replace(t.ArtworkURL100, "100x100", "300x300", 1)
	case t.ArtworkURL60 != "":
		cover = strings.Replace(t.ArtworkURL60, "60x60", "300x300", 1)
	default:
		cover = search.PlaceholderCover(t.TrackName)
	}

	publishedDate := search.UnknownDate
	if released, err := time.Parse(time.RFC3339, t.ReleaseDate); err == nil {
		publishedDate = strconv.Itoa(released.Year())
	}

	genres := t.Genres
	if len(genres) > maxGenres {
		genres = genres[:maxGenres]
	}

	return search.Book{
		ID:            fmt.Sprintf("itunes-%d", t.TrackID),
		Title:         search.NonEmpty(t.TrackName, search.UnknownTitle),
		Author:        search.NonEmpty(t.ArtistName, search.UnknownAuthor),
		Cover:         cover,
		Description:   search.NonEmpty(t.Description, search.NoDescription),
		Publisher:     search.UnknownPublisher,
		PublishedDate: publishedDate,
		PageCount:     0,
		Categories:    search.ClipCategories(genres),
		ISBN:          "",
		Source:        search.SourceITunes,
	}
}
