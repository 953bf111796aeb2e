package auth

import "context"

// Identity is the authenticated principal extracted from a request token.
// Handlers pass it explicitly into service calls; nothing in the system reads
// an ambient "current user".
type Identity struct {
	Username string
	Role     string
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the signed token and the account profile.
type AuthResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)

	// ParseToken validates a signed token and returns the identity it carries.
	ParseToken(token string) (*Identity, error)
}
