package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"estante/internal/platform/crypto"
	"estante/internal/session"
	"estante/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

type Service struct {
	secret         string
	userService    *user.Service
	sessionService *session.Service
}

func NewService(secret string, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		userService:    userService,
		sessionService: sessionService,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func (s *Service) Register(ctx context.Context, email, username, password string) (user.User, error) {
	hashedPassword, err := crypto.HashPassword(password)
	if err != nil {
		return user.User{}, err
	}
	return s.userService.Register(ctx, email, username, hashedPassword)
}

// Login returns an access token, a refresh token and the access token TTL
// in seconds.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool, userAgent, ipAddress string) (string, string, int, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil || !crypto.VerifyPassword(u.Password, password) {
		return "", "", 0, ErrUnauthorized
	}

	accessTokenTTL := 15 * time.Minute
	refreshTokenTTL := 30 * 24 * time.Hour
	if rememberMe {
		refreshTokenTTL = 90 * 24 * time.Hour
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	refreshTokenBytes := make([]byte, 32)
	if _, err := rand.Read(refreshTokenBytes); err != nil {
		return "", "", 0, err
	}
	refreshToken := hex.EncodeToString(refreshTokenBytes)

	sess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refreshToken),
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		RememberMe:       rememberMe,
		ExpiresAt:        time.Now().Add(refreshTokenTTL),
	}
	if err := s.sessionService.Create(ctx, sess); err != nil {
		return "", "", 0, err
	}

	_ = s.userService.TouchLastLogin(ctx, u.ID)

	return accessToken, refreshToken, int(accessTokenTTL.Seconds()), nil
}

// Refresh rotates a refresh token and mints a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, int, error) {
	oldHash := hashToken(refreshToken)
	sess, err := s.sessionService.GetByTokenHash(ctx, oldHash)
	if err != nil {
		return "", "", 0, ErrUnauthorized
	}

	u, err := s.userService.GetByID(ctx, sess.UserID)
	if err != nil {
		return "", "", 0, ErrUnauthorized
	}

	accessTokenTTL := 15 * time.Minute
	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, accessTokenTTL)
	if err != nil {
		return "", "", 0, err
	}

	newTokenBytes := make([]byte, 32)
	if _, err := rand.Read(newTokenBytes); err != nil {
		return "", "", 0, err
	}
	newRefreshToken := hex.EncodeToString(newTokenBytes)

	// Revoke before creating: if the create fails midway the user has to
	// log in again, but at no point are two refresh tokens live.
	if err := s.sessionService.Revoke(ctx, oldHash); err != nil {
		return "", "", 0, err
	}

	newSess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(newRefreshToken),
		UserAgent:        sess.UserAgent,
		IPAddress:        sess.IPAddress,
		RememberMe:       sess.RememberMe,
		ExpiresAt:        sess.ExpiresAt,
	}
	if err := s.sessionService.Create(ctx, newSess); err != nil {
		return "", "", 0, err
	}

	return accessToken, newRefreshToken, int(accessTokenTTL.Seconds()), nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.sessionService.Revoke(ctx, hashToken(refreshToken))
}

// LogoutAll revokes every session the user has, on every device.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	return s.sessionService.RevokeAllForUser(ctx, userID)
}
