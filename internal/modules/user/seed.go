package user

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates an ADMIN account at startup so privileged endpoints are
// reachable on a fresh database; registration only ever issues the USER role.
// Idempotent: if the username is already taken, nothing is written.
func EnsureAdmin(ctx context.Context, repo Repository, username, email, password string) (bool, error) {
	exists, err := repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         RoleAdmin,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
