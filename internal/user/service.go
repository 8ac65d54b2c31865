package user

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, email, username, hashedPassword string) (User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrAlreadyExists
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return User{}, ErrAlreadyExists
	}

	newUser := &User{
		Email:    email,
		Username: username,
		Password: hashedPassword,
		Role:     "USER",
		IsPublic: true,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}
	return *newUser, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// GetPublicByUsername resolves a username to a user, hiding private
// accounts behind ErrNotFound.
func (s *Service) GetPublicByUsername(ctx context.Context, username string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !u.IsPublic {
		return User{}, ErrNotFound
	}
	return u, nil
}

// SearchPublic finds public users whose username starts with the given
// text, case-insensitively.
func (s *Service) SearchPublic(ctx context.Context, text string, limit, offset int) ([]User, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []User{}, 0, nil
	}
	return s.repo.SearchPublicByUsername(ctx, strings.ToLower(text), limit, offset)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return errors.New("no fields to update")
	}
	return s.repo.UpdateProfile(ctx, userID, updates)
}

func (s *Service) TouchLastLogin(ctx context.Context, userID string) error {
	return s.repo.TouchLastLogin(ctx, userID)
}
