package library

import "context"

type Repository interface {
	Insert(ctx context.Context, item *Item) error
	Get(ctx context.Context, userID, id string) (Item, error)
	List(ctx context.Context, userID, status string, limit, offset int) ([]Item, int, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, userID, id string) error
	GetStats(ctx context.Context, userID string) (Stats, error)
}
