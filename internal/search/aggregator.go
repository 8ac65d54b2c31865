package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Adapter is a catalog-specific search client. Search returns the
// normalized results for a query, already scored; errors are reported to
// the aggregator, never to its callers.
type Adapter interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Book, error)
}

const (
	// MaxResults is the cap applied to one aggregated result set.
	MaxResults = 30

	defaultAdapterTimeout = 3 * time.Second
)

// Options tunes one aggregated search.
type Options struct {
	// AllLanguages disables the Portuguese-only filter.
	AllLanguages bool
}

// Aggregator fans a query out to every catalog, merges whatever came back,
// deduplicates, optionally filters by language, ranks and truncates.
// A failing or slow catalog contributes nothing; it never aborts the rest.
type Aggregator struct {
	adapters []Adapter
	timeout  time.Duration
	logger   *slog.Logger
}

func NewAggregator(adapters []Adapter, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		adapters: adapters,
		timeout:  defaultAdapterTimeout,
		logger:   logger,
	}
}

// Search runs the full fan-out/fan-in pipeline. A blank query returns an
// empty result without touching any catalog.
func (a *Aggregator) Search(ctx context.Context, q Query, opts Options) []Book {
	if strings.TrimSpace(q.Text) == "" {
		return []Book{}
	}

	perAdapter := make([][]Book, len(a.adapters))

	var g errgroup.Group
	for i, adapter := range a.adapters {
		g.Go(func() error {
			adapterCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			books, err := adapter.Search(adapterCtx, q)
			if err != nil {
				a.logger.Warn("catalog search failed",
					"catalog", adapter.Name(),
					"query", q.Text,
					"error", err,
				)
				return nil
			}
			perAdapter[i] = books
			return nil
		})
	}
	// Goroutines only record into their own slot, so the join is the sole
	// synchronization point.
	_ = g.Wait()

	var merged []Book
	for _, books := range perAdapter {
		merged = append(merged, books...)
	}

	merged = dedupe(merged)

	if !opts.AllLanguages {
		filtered := make([]Book, 0, len(merged))
		for _, b := range merged {
			if LooksPortuguese(b) {
				filtered = append(filtered, b)
			}
		}
		merged = filtered
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})

	if len(merged) > MaxResults {
		merged = merged[:MaxResults]
	}
	return merged
}

// dedupe drops later occurrences of the same lower-cased title+author pair,
// regardless of which catalog they came from. First occurrence wins.
func dedupe(books []Book) []Book {
	seen := make(map[string]struct{}, len(books))
	unique := make([]Book, 0, len(books))
	for _, b := range books {
		key := strings.ToLower(b.Title) + "-" + strings.ToLower(b.Author)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, b)
	}
	return unique
}
