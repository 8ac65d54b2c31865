package profile

import (
	"context"

	"estante/internal/library"
	"estante/internal/user"
)

type Service struct {
	userService    *user.Service
	libraryService *library.Service
}

func NewService(userService *user.Service, libraryService *library.Service) *Service {
	return &Service{
		userService:    userService,
		libraryService: libraryService,
	}
}

func (s *Service) GetOwnProfile(ctx context.Context, userID string) (Profile, error) {
	u, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	stats, err := s.libraryService.GetStats(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{User: u, Stats: stats}, nil
}

// GetPublicProfile resolves a username to a public profile. Private
// accounts are indistinguishable from missing ones.
func (s *Service) GetPublicProfile(ctx context.Context, username string) (Profile, error) {
	u, err := s.userService.GetPublicByUsername(ctx, username)
	if err != nil {
		return Profile{}, err
	}

	stats, err := s.libraryService.GetStats(ctx, u.ID)
	if err != nil {
		return Profile{}, err
	}

	// Strip private fields before the profile leaves the service.
	u.Email = ""
	u.Role = ""
	u.LastLoginAt = nil

	return Profile{User: u, Stats: stats}, nil
}

// GetPublicLibrary lists a public user's shelf for discovery pages.
func (s *Service) GetPublicLibrary(ctx context.Context, username, status string, limit, offset int) ([]library.Item, int, error) {
	u, err := s.userService.GetPublicByUsername(ctx, username)
	if err != nil {
		return nil, 0, err
	}
	return s.libraryService.List(ctx, u.ID, status, limit, offset)
}
