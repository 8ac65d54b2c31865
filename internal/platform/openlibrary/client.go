// Package openlibrary searches the Open Library catalog. Summary results
// are thin, so each matched document gets a secondary detail fetch to fill
// in description, publisher and page count.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"estante/internal/search"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	coversBaseURL  = "https://covers.openlibrary.org"

	maxResults = 20
	// maxDetailFetches bounds the per-document enrichment fan-out.
	maxDetailFetches = 10
)

// Config carries the injectable pieces of the client; zero values fall back
// to production defaults.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	RPS        int
	MaxRetries int
}

type Client struct {
	baseURL    string
	userAgent  string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		http:       cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RPS)), 1),
		maxRetries: cfg.MaxRetries,
	}
}

func (c *Client) Name() string { return "open-library" }

// searchResponse matches search.json.
type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	CoverID          int      `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
	Subjects         []string `json:"subject"`
	ISBNs            []string `json:"isbn"`
	EditionKeys      []string `json:"edition_key"`
}

// workDetails matches the per-key .json detail document.
type workDetails struct {
	Description   json.RawMessage `json:"description"`
	Publishers    []string        `json:"publishers"`
	PublishDate   string          `json:"publish_date"`
	NumberOfPages int             `json:"number_of_pages"`
}

// description is either a bare string or {"type": ..., "value": ...}.
func (d workDetails) description() string {
	if len(d.Description) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(d.Description, &s); err == nil {
		return s
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(d.Description, &obj); err == nil {
		return obj.Value
	}
	return ""
}

func (c *Client) Search(ctx context.Context, q search.Query) ([]search.Book, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, nil
	}

	term := text
	switch {
	case q.Mode == search.ModeByAuthor:
		term = fmt.Sprintf("author:%q", text)
	case search.LooksLikeISBN(text):
		term = "isbn:" + text
	}

	params := url.Values{}
	params.Set("q", term)
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("language", "por")
	params.Set("fields", "key,title,author_name,cover_i,first_publish_year,subject,isbn,edition_key")

	var res searchResponse
	if err := c.get(ctx, c.baseURL+"/search.json?"+params.Encode(), &res); err != nil {
		return nil, err
	}

	docs := res.Docs
	if len(docs) > maxDetailFetches {
		docs = docs[:maxDetailFetches]
	}
	if len(docs) == 0 {
		return nil, nil
	}

	books := make([]search.Book, len(docs))
	var g errgroup.Group
	g.SetLimit(maxDetailFetches)
	for i, d := range docs {
		g.Go(func() error {
			books[i] = c.toBook(ctx, d, text)
			return nil
		})
	}
	_ = g.Wait()
	return books, nil
}

// toBook enriches one summary document with its detail fetch. A failed
// detail fetch degrades that record to defaults; it never fails the search.
func (c *Client) toBook(ctx context.Context, d doc, queryText string) search.Book {
	detailKey := d.Key
	if !strings.HasPrefix(d.Key, "/works/") && len(d.EditionKeys) > 0 {
		detailKey = "/books/" + d.EditionKeys[0]
	}

	var details workDetails
	if err := c.get(ctx, c.baseURL+detailKey+".json", &details); err != nil {
		details = workDetails{}
	}

	cover := search.PlaceholderCover(d.Title)
	if d.CoverID > 0 {
		cover = fmt.Sprintf("%s/b/id/%d-L.jpg", coversBaseURL, d.CoverID)
	}

	publishedDate := search.UnknownDate
	if d.FirstPublishYear > 0 {
		publishedDate = strconv.Itoa(d.FirstPublishYear)
	} else if details.PublishDate != "" {
		publishedDate = details.PublishDate
	}

	publisher := search.UnknownPublisher
	if len(details.Publishers) > 0 {
		publisher = details.Publishers[0]
	}

	isbn := ""
	if len(d.ISBNs) > 0 {
		isbn = d.ISBNs[0]
	}

	pageCount := details.NumberOfPages
	if pageCount < 0 {
		pageCount = 0
	}

	b := search.Book{
		ID:            "openlibrary-" + strings.ReplaceAll(strings.TrimPrefix(d.Key, "/"), "/", "-"),
		Title:         search.NonEmpty(d.Title, search.UnknownTitle),
		Author:        search.JoinAuthors(d.AuthorNames),
		Cover:         cover,
		Description:   search.NonEmpty(details.description(), search.NoDescription),
		Publisher:     publisher,
		PublishedDate: publishedDate,
		PageCount:     pageCount,
		Categories:    search.ClipCategories(d.Subjects),
		ISBN:          isbn,
		Source:        search.SourceOpenLibrary,
	}
	b.RelevanceScore = search.Score(b, queryText)
	return b
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("open library: unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return lastErr
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("open library: decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("open library: after %d retries: %w", c.maxRetries, lastErr)
}
