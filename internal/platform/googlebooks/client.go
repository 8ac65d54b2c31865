// Package googlebooks searches the Google Books volumes API and normalizes
// its results into the common search.Book shape.
package googlebooks

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
	defaultBaseURL = "https://www.googleapis.com/books/v1"
	maxResults     = 20
)

// Config carries the injectable pieces of the client; zero values fall back
// to production defaults.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    cfg.HTTPClient,
	}
}

func (c *Client) Name() string { return "google-books" }

// volumesResponse matches GET /volumes.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Categories          []string `json:"categories"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		SmallThumbnail string `json:"smallThumbnail"`
		Thumbnail      string `json:"thumbnail"`
	} `json:"imageLinks"`
}

func (c *Client) Search(ctx context.Context, q search.Query) ([]search.Book, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, nil
	}

	term := text
	switch {
	case q.Mode == search.ModeByAuthor:
		term = fmt.Sprintf("inauthor:%q", text)
	case search.LooksLikeISBN(text):
		term = "isbn:" + text
	}

	params := url.Values{}
	params.Set("q", term)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	params.Set("orderBy", "relevance")
	params.Set("langRestrict", "pt")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google books request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books: unexpected status code: %d", resp.StatusCode)
	}

	var res volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("google books: decode response: %w", err)
	}

	books := make([]search.Book, 0, len(res.Items))
	for _, item := range res.Items {
		b := toBook(item)
		b.RelevanceScore = search.Score(b, text)
		books = append(books, b)
	}
	return books, nil
}

func toBook(v volume) search.Book {
	info := v.VolumeInfo

	cover := info.ImageLinks.Thumbnail
	if cover == "" {
		cover = info.ImageLinks.SmallThumbnail
	}
	if cover == "" {
		cover = search.PlaceholderCover(info.Title)
	}

	isbn := ""
	if len(info.IndustryIdentifiers) > 0 {
		isbn = info.IndustryIdentifiers[0].Identifier
	}

	pageCount := info.PageCount
	if pageCount < 0 {
		pageCount = 0
	}

	return search.Book{
		ID:            "google-" + v.ID,
		Title:         search.NonEmpty(info.Title, search.UnknownTitle),
		Author:        search.JoinAuthors(info.Authors),
		Cover:         cover,
		Description:   search.NonEmpty(info.Description, search.NoDescription),
		Publisher:     search.NonEmpty(info.Publisher, search.UnknownPublisher),
		PublishedDate: search.NonEmpty(info.PublishedDate, search.UnknownDate),
		PageCount:     pageCount,
		Categories:    search.ClipCategories(info.Categories),
		ISBN:          isbn,
		Source:        search.SourceGoogleBooks,
	}
}
