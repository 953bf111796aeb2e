package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) CreateUser(ctx context.Context, u *User) error {
	f.users[u.Username] = u
	return nil
}

func (f *fakeRepo) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	for _, u := range f.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestEnsureAdmin_CreatesAdminRole(t *testing.T) {
	repo := newFakeRepo()

	created, err := EnsureAdmin(context.Background(), repo, "admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	admin := repo.users["admin"]
	require.NotNil(t, admin)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.NotEqual(t, "admin123", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	ctx := context.Background()

	created, err := EnsureAdmin(ctx, repo, "admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	require.True(t, created)
	firstID := repo.users["admin"].ID

	created, err = EnsureAdmin(ctx, repo, "admin", "admin@example.com", "other-password")
	require.NoError(t, err)
	assert.False(t, created, "second run must not touch the existing account")
	assert.Equal(t, firstID, repo.users["admin"].ID)
	assert.Len(t, repo.users, 1)
}
