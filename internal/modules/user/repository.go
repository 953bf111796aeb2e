package user

import "context"

// Repository defines data access for user accounts.
type Repository interface {
	// CreateUser persists a new account.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByUsername resolves an account by its unique username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserByID resolves an account by UUID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// ExistsByUsername reports whether the username is already taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether the email is already in use.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
