package auth

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkamanga/gostore-backend/internal/modules/user"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.Username] = u
	return nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, "test-secret")
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, string(user.RoleUser), resp.Role)
	assert.NotEmpty(t, resp.Token)

	// password hash never leaks the plaintext
	stored := repo.users["alice"]
	assert.NotEqual(t, "password123", stored.PasswordHash)

	login, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	identity, err := svc.ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, string(user.RoleUser), identity.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Email: "b@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice2", Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "test-secret")

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_WrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, "test-secret")
	other := NewService(repo, "other-secret")
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = other.ParseToken(resp.Token)
	assert.Error(t, err)
}
