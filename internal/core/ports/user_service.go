package ports

import (
	"context"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// UpdateUserInput carries the optional fields of PUT /user/:id. Empty
// strings mean "leave unchanged".
type UpdateUserInput struct {
	Username string
	Password string
	Role     string
}

type UserService interface {
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.User, error)
	List(ctx context.Context, caller domain.Identity) ([]*domain.User, error)
	Update(ctx context.Context, caller domain.Identity, id string, in UpdateUserInput) (*domain.User, error)
	// Delete removes the user and every debt they own.
	Delete(ctx context.Context, caller domain.Identity, id string) error
}
