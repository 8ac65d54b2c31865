package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estante/internal/platform/crypto"
	"estante/internal/session"
	"estante/internal/user"
)

const testSecret = "test-secret-0123456789abcdef0123456789abcdef"

// memUserRepo is an in-memory user.Repository for exercising the full
// register/login/refresh flow without a database.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
	next  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]user.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	u.ID = fmt.Sprintf("user-%d", r.next)
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}

func (r *memUserRepo) SearchPublicByUsername(_ context.Context, _ string, _, _ int) ([]user.User, int, error) {
	return nil, 0, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}

func (r *memUserRepo) TouchLastLogin(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		now := time.Now()
		u.LastLoginAt = &now
		r.users[userID] = u
	}
	return nil
}

type memSessionRepo struct {
	mu         sync.Mutex
	sessions   map[string]session.Session
	failCreate bool
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]session.Session{}}
}

func (r *memSessionRepo) Create(_ context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("insert failed")
	}
	s.ID = "sess-" + s.RefreshTokenHash[:8]
	r.sessions[s.RefreshTokenHash] = *s
	return nil
}

func (r *memSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[tokenHash]; ok {
		return s, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (r *memSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

func (r *memSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func (r *memSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func newTestService() (*Service, *memUserRepo, *memSessionRepo) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	svc := NewService(testSecret, user.NewService(users), session.NewService(sessions))
	return svc, users, sessions
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users, _ := newTestService()

	u, err := svc.Register(context.Background(), "ana@example.com", "ana", "Estante123")
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Estante123", stored.Password)
	assert.True(t, crypto.VerifyPassword(stored.Password, "Estante123"))
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, sessions := newTestService()
	_, err := svc.Register(context.Background(), "ana@example.com", "ana", "Estante123")
	require.NoError(t, err)

	access, refresh, expiresIn, err := svc.Login(context.Background(), "ana@example.com", "Estante123", false, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, int((15 * time.Minute).Seconds()), expiresIn)
	assert.Equal(t, 1, sessions.count())

	claims, err := crypto.ParseToken(testSecret, access)
	require.NoError(t, err)
	assert.Equal(t, "USER", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Register(context.Background(), "ana@example.com", "ana", "Estante123")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "ana@example.com", "wrong", false, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever", false, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, sessions := newTestService()
	_, err := svc.Register(context.Background(), "ana@example.com", "ana", "Estante123")
	require.NoError(t, err)

	_, refresh, _, err := svc.Login(context.Background(), "ana@example.com", "Estante123", false, "", "")
	require.NoError(t, err)

	access2, refresh2, _, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access2)
	assert.NotEqual(t, refresh, refresh2)
	assert.Equal(t, 1, sessions.count())

	// The old token no longer refreshes.
	_, _, _, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// The rotated one does.
	_, _, _, err = svc.Refresh(context.Background(), refresh2)
	assert.NoError(t, err)
}

func TestRefreshNeverLeavesTwoTokensLive(t *testing.T) {
	svc, _, sessions := newTestService()
	_, err := svc.Register(context.Background(), "ana@example.com", "ana", "Estante123")
	require.NoError(t, err)

	_, refresh, _, err := svc.Login(context.Background(), "ana@example.com", "Estante123", false, "", "")
	require.NoError(t, err)

	// Rotation fails midway: the replacement session cannot be stored.
	sessions.failCreate = true
	_, _, _, err = svc.Refresh(context.Background(), refresh)
	require.Error(t, err)

	// The old token was already revoked, so nothing stays usable.
	sessions.failCreate = false
	assert.Zero(t, sessions.count())
	_, _, _, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, _, err := svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestService()
	_, err := svc.Register(context.Background(), "ana@example.com", "ana", "Estante123")
	require.NoError(t, err)

	_, refresh, _, err := svc.Login(context.Background(), "ana@example.com", "Estante123", false, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), refresh))
	assert.Zero(t, sessions.count())

	_, _, _, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
