package library

import (
	"context"
	"fmt"
	"math"

	"estante/internal/search"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add copies a search result into the user's library. The search result
// schema has no reading state, so the item starts with the given status
// (unread when empty) and zero progress.
func (s *Service) Add(ctx context.Context, userID string, b search.Book, status string) (Item, error) {
	if status == "" {
		status = StatusUnread
	}
	if err := ValidateStatus(status); err != nil {
		return Item{}, err
	}

	item := &Item{
		UserID:        userID,
		Title:         b.Title,
		Author:        b.Author,
		Cover:         b.Cover,
		Description:   b.Description,
		Publisher:     b.Publisher,
		PublishedDate: b.PublishedDate,
		PageCount:     b.PageCount,
		Categories:    b.Categories,
		ISBN:          b.ISBN,
		Source:        string(b.Source),
		Status:        status,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return Item{}, err
	}
	return *item, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Item, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns a user's items, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID, status string, limit, offset int) ([]Item, int, error) {
	if status != "" {
		if err := ValidateStatus(status); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, userID, status, limit, offset)
}

// UpdateProgress records a page position and derives the new status:
// finishing the book marks it finished, any progress marks it reading,
// and clearing progress on a book already started marks it unread again.
func (s *Service) UpdateProgress(ctx context.Context, userID, id string, currentPage, totalPages int) (Item, error) {
	if currentPage < 0 || totalPages < 0 {
		return Item{}, fmt.Errorf("pages must be non-negative")
	}

	item, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Item{}, err
	}

	progress := 0
	if totalPages > 0 {
		progress = int(math.Round(float64(currentPage) / float64(totalPages) * 100))
	}
	if progress > 100 {
		progress = 100
	}

	switch {
	case progress >= 100:
		item.Status = StatusFinished
	case progress > 0:
		item.Status = StatusReading
	case item.Status == StatusUnread:
		// First touch of an unread book counts as picking it up.
		item.Status = StatusReading
	default:
		item.Status = StatusUnread
	}

	item.CurrentPage = currentPage
	if totalPages > 0 {
		item.PageCount = totalPages
	}
	item.Progress = progress

	if err := s.repo.Update(ctx, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// SetStatus moves an item directly between shelves.
func (s *Service) SetStatus(ctx context.Context, userID, id, status string) (Item, error) {
	if err := ValidateStatus(status); err != nil {
		return Item{}, err
	}

	item, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Item{}, err
	}

	item.Status = status
	if status == StatusFinished && item.PageCount > 0 {
		item.CurrentPage = item.PageCount
		item.Progress = 100
	}
	if status == StatusUnread {
		item.CurrentPage = 0
		item.Progress = 0
	}

	if err := s.repo.Update(ctx, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *Service) SetRating(ctx context.Context, userID, id string, rating int) (Item, error) {
	if rating < 0 || rating > 5 {
		return Item{}, fmt.Errorf("rating must be between 0 and 5")
	}

	item, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Item{}, err
	}
	item.Rating = rating
	if err := s.repo.Update(ctx, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *Service) SetReview(ctx context.Context, userID, id, review string) (Item, error) {
	item, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Item{}, err
	}
	item.Review = review
	if err := s.repo.Update(ctx, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *Service) Remove(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) GetStats(ctx context.Context, userID string) (Stats, error) {
	return s.repo.GetStats(ctx, userID)
}
