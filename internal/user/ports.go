package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	SearchPublicByUsername(ctx context.Context, prefix string, limit, offset int) ([]User, int, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error
	TouchLastLogin(ctx context.Context, userID string) error
}
