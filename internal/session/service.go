package session

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sess *Session) error {
	return s.repo.Create(ctx, sess)
}

// GetByTokenHash returns the live session for a refresh token hash.
// Expired sessions are reported as not found.
func (s *Service) GetByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	sess, err := s.repo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.repo.DeleteByTokenHash(ctx, tokenHash)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *Service) Revoke(ctx context.Context, tokenHash string) error {
	return s.repo.DeleteByTokenHash(ctx, tokenHash)
}

func (s *Service) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}

// DeleteExpired removes sessions past their expiry and reports how many.
func (s *Service) DeleteExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
