package ports

import (
	"context"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// DebtRepository is the debt store.
type DebtRepository interface {
	Create(ctx context.Context, debt *domain.Debt) (*domain.Debt, error)
	// FindByID returns domain.ErrDebtNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Debt, error)
	List(ctx context.Context) ([]*domain.Debt, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Debt, error)
	Update(ctx context.Context, debt *domain.Debt) (*domain.Debt, error)
	UpdateStatus(ctx context.Context, id string, status domain.DebtStatus) (*domain.Debt, error)
	// Delete is a no-op for ids that do not exist.
	Delete(ctx context.Context, id string) error
	// DeleteByOwner removes every debt owned by ownerID and reports how many.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
