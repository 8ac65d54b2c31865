package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estante/internal/library"
	"estante/internal/user"
)

// fakeUserRepo serves two canned accounts: a public one and a private one.
type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]user.User{
		"u-pub":  {ID: "u-pub", Email: "ana@example.com", Username: "ana", Role: "USER", IsPublic: true},
		"u-priv": {ID: "u-priv", Email: "bia@example.com", Username: "bia", Role: "USER", IsPublic: false},
	}}
}

func (r *fakeUserRepo) Create(context.Context, *user.User) error { return nil }

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) SearchPublicByUsername(context.Context, string, int, int) ([]user.User, int, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) UpdateProfile(context.Context, string, map[string]interface{}) error {
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(context.Context, string) error { return nil }

// fakeLibraryRepo serves one reading item and fixed stats per user.
type fakeLibraryRepo struct{}

func (fakeLibraryRepo) Insert(context.Context, *library.Item) error { return nil }

func (fakeLibraryRepo) Get(context.Context, string, string) (library.Item, error) {
	return library.Item{}, library.ErrNotFound
}

func (fakeLibraryRepo) List(_ context.Context, userID, _ string, _, _ int) ([]library.Item, int, error) {
	return []library.Item{{ID: "item-1", UserID: userID, Title: "Vidas Secas", Status: library.StatusReading}}, 1, nil
}

func (fakeLibraryRepo) Update(context.Context, *library.Item) error { return nil }

func (fakeLibraryRepo) Delete(context.Context, string, string) error { return nil }

func (fakeLibraryRepo) GetStats(context.Context, string) (library.Stats, error) {
	return library.Stats{Total: 3, Unread: 1, Reading: 1, Finished: 1, PagesRead: 420}, nil
}

func newTestService() *Service {
	return NewService(
		user.NewService(newFakeUserRepo()),
		library.NewService(fakeLibraryRepo{}),
	)
}

func TestGetOwnProfileIncludesPrivateFields(t *testing.T) {
	svc := newTestService()

	p, err := svc.GetOwnProfile(context.Background(), "u-pub")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", p.User.Email)
	assert.Equal(t, 3, p.Stats.Total)
	assert.Equal(t, 420, p.Stats.PagesRead)
}

func TestGetPublicProfileStripsPrivateFields(t *testing.T) {
	svc := newTestService()

	p, err := svc.GetPublicProfile(context.Background(), "ana")
	require.NoError(t, err)

	assert.Equal(t, "ana", p.User.Username)
	assert.Empty(t, p.User.Email)
	assert.Empty(t, p.User.Role)
	assert.Nil(t, p.User.LastLoginAt)
	assert.Equal(t, 3, p.Stats.Total)
}

func TestGetPublicProfileHidesPrivateAccount(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetPublicProfile(context.Background(), "bia")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestGetPublicLibrary(t *testing.T) {
	svc := newTestService()

	items, total, err := svc.GetPublicLibrary(context.Background(), "ana", "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "u-pub", items[0].UserID)
}

func TestGetPublicLibraryPrivateAccount(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.GetPublicLibrary(context.Background(), "bia", "", 20, 0)
	assert.ErrorIs(t, err, user.ErrNotFound)
}
