package ports

import (
	"context"
	"time"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// CreateDebtInput carries the fields of POST /debts/add.
type CreateDebtInput struct {
	OwnerID        string
	Name           string
	Value          float64
	DueDate        time.Time
	IdempotencyKey string // optional
}

// EditDebtInput replaces every mutable field of a debt.
type EditDebtInput struct {
	OwnerID string
	Name    string
	Value   float64
	DueDate time.Time
	Status  domain.DebtStatus
}

// CreateDebtResult reports whether the debt was replayed from an earlier
// request with the same idempotency key.
type CreateDebtResult struct {
	Debt           *domain.Debt
	AlreadyExisted bool
}

type DebtService interface {
	Create(ctx context.Context, caller domain.Identity, in CreateDebtInput) (*CreateDebtResult, error)
	// List returns every debt for admins and the caller's own debts when
	// userID is the caller.
	List(ctx context.Context, caller domain.Identity, userID string) ([]*domain.Debt, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, debtID string, status domain.DebtStatus) (*domain.Debt, error)
	Edit(ctx context.Context, caller domain.Identity, debtID string, in EditDebtInput) (*domain.Debt, error)
	Delete(ctx context.Context, caller domain.Identity, debtID string) error
}
