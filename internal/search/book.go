package search

import (
	"strings"
)

// Source identifies the catalog that produced a result.
type Source string

const (
	SourceGoogleBooks Source = "Google Books"
	SourceOpenLibrary Source = "Open Library"
	SourceITunes      Source = "iTunes"
	SourceWorldCat    Source = "WorldCat"
)

// Sentinel values for fields a catalog may omit. Every field of a Book is
// always populated; absence is represented by these values, never by "".
const (
	UnknownTitle     = "Unknown Title"
	UnknownAuthor    = "Unknown Author"
	UnknownPublisher = "Unknown Publisher"
	UnknownDate      = "Unknown Date"
	NoDescription    = "No description available"
)

// MaxCategories caps the subject tags kept from catalogs that return many.
const MaxCategories = 5

// Book is the normalized record every catalog client produces.
// A Book is immutable once built; the aggregator never rewrites fields
// assigned by a client.
type Book struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Cover          string   `json:"cover"`
	Description    string   `json:"description"`
	Publisher      string   `json:"publisher"`
	PublishedDate  string   `json:"published_date"`
	PageCount      int      `json:"page_count"`
	Categories     []string `json:"categories"`
	ISBN           string   `json:"isbn"`
	Source         Source   `json:"source"`
	RelevanceScore int      `json:"relevance_score"`
}

// NonEmpty returns s unless it is blank, in which case fallback is returned.
func NonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// JoinAuthors joins multiple author names into the display form used across
// the app. An empty list yields the author sentinel.
func JoinAuthors(names []string) string {
	if len(names) == 0 {
		return UnknownAuthor
	}
	return strings.Join(names, ", ")
}

// ClipCategories returns at most MaxCategories entries, never nil.
func ClipCategories(categories []string) []string {
	if len(categories) > MaxCategories {
		categories = categories[:MaxCategories]
	}
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

const placeholderCoverBase = "https://via.placeholder.com/150x220/4A5568/FFFFFF?text="

// PlaceholderCover builds a generated cover image URL embedding a short
// fragment of the title, for results whose catalog has no cover art.
func PlaceholderCover(title string) string {
	runes := []rune(title)
	if len(runes) > 15 {
		runes = runes[:15]
	}
	fragment := strings.Join(strings.Fields(string(runes)), "+")
	if fragment == "" {
		fragment = "No+Title"
	}
	return placeholderCoverBase + fragment
}
