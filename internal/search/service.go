package search

import "context"

// Service is the caller-facing entry point for book search.
type Service struct {
	aggregator *Aggregator
}

func NewService(aggregator *Aggregator) *Service {
	return &Service{aggregator: aggregator}
}

// SearchGeneral searches all catalogs with free text (title, author or ISBN).
func (s *Service) SearchGeneral(ctx context.Context, text string, opts Options) []Book {
	return s.aggregator.Search(ctx, Query{Text: text, Mode: ModeGeneral}, opts)
}

// SearchByAuthor searches all catalogs scoped to an author name.
func (s *Service) SearchByAuthor(ctx context.Context, name string, opts Options) []Book {
	return s.aggregator.Search(ctx, Query{Text: name, Mode: ModeByAuthor}, opts)
}
