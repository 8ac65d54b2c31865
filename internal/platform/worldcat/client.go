// Package worldcat searches the WorldCat union catalog through its
// opensearch endpoint. The JSON it serves is converted Atom, so text lives
// in "$t" wrappers and single entries arrive as objects where lists would
// arrive as arrays.
package worldcat

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
	defaultBaseURL = "https://www.worldcat.org/webservices/catalog/search/worldcat/opensearch"
	maxResults     = 20
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

func (c *Client) Name() string { return "worldcat" }

type textNode struct {
	Text string `json:"$t"`
}

type namedNode struct {
	Name textNode `json:"name"`
}

type entry struct {
	Title     *textNode       `json:"title"`
	Author    json.RawMessage `json:"author"`
	Summary   *textNode       `json:"summary"`
	Publisher json.RawMessage `json:"publisher"`
	Published *textNode       `json:"published"`
}

type feedResponse struct {
	Entries struct {
		Entry []entry `json:"entry"`
	} `json:"entries"`
}

func (c *Client) Search(ctx context.Context, q search.Query) ([]search.Book, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, nil
	}

	// No author-scoped syntax here; both modes send the raw text.
	params := url.Values{}
	params.Set("srwt", text)
	params.Set("format", "json")
	params.Set("count", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("worldcat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("worldcat: unexpected status code: %d", resp.StatusCode)
	}

	var res feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("worldcat: decode response: %w", err)
	}

	books := make([]search.Book, 0, len(res.Entries.Entry))
	for i, e := range res.Entries.Entry {
		b := toBook(e, i)
		b.RelevanceScore = search.Score(b, text)
		books = append(books, b)
	}
	return books, nil
}

// namedNodes decodes a field that is either one {"name":{"$t":...}} object
// or an array of them.
func namedNodes(raw json.RawMessage) []namedNode {
	if len(raw) == 0 {
		return nil
	}
	var many []namedNode
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one namedNode
	if err := json.Unmarshal(raw, &one); err == nil {
		return []namedNode{one}
	}
	return nil
}

func textOf(n *textNode, fallback string) string {
	if n == nil || strings.TrimSpace(n.Text) == "" {
		return fallback
	}
	return n.Text
}

func toBook(e entry, index int) search.Book {
	title := textOf(e.Title, search.UnknownTitle)

	author := search.UnknownAuthor
	if authors := namedNodes(e.Author); len(authors) > 0 {
		names := make([]string, 0, len(authors))
		for _, a := range authors {
			if a.Name.Text != "" {
				names = append(names, a.Name.Text)
			}
		}
		if len(names) > 0 {
			author = strings.Join(names, ", ")
		}
	}

	publisher := search.UnknownPublisher
	if publishers := namedNodes(e.Publisher); len(publishers) > 0 && publishers[0].Name.Text != "" {
		publisher = publishers[0].Name.Text
	}

	return search.Book{
		ID:            fmt.Sprintf("worldcat-%d", index),
		Title:         title,
		Author:        author,
		Cover:         search.PlaceholderCover(title),
		Description:   textOf(e.Summary, search.NoDescription),
		Publisher:     publisher,
		PublishedDate: textOf(e.Published, search.UnknownDate),
		PageCount:     0,
		Categories:    []string{},
		ISBN:          "",
		Source:        search.SourceWorldCat,
	}
}
