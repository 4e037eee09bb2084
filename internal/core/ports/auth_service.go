package ports

import (
	"context"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Authenticate verifies a bearer token and re-resolves the caller from
	// the credential store.
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}
