package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/policy"
	"github.com/debttracker/debt-api/internal/core/ports"
)

const (
	idempotencyScope = "debts"
	defaultKeyTTL    = 24 * time.Hour
)

// DebtService manages debt records under the authorization policy.
type DebtService struct {
	debts  ports.DebtRepository
	users  ports.UserRepository
	idem   ports.IdempotencyStore
	keyTTL time.Duration
	audit  ports.AuditRecorder
	log    zerolog.Logger
}

// NewDebtService returns a DebtService. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewDebtService(
	debts ports.DebtRepository,
	users ports.UserRepository,
	idem ports.IdempotencyStore,
	keyTTL time.Duration,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *DebtService {
	if keyTTL <= 0 {
		keyTTL = defaultKeyTTL
	}
	if audit == nil {
		audit = nopRecorder{}
	}
	return &DebtService{debts: debts, users: users, idem: idem, keyTTL: keyTTL, audit: audit, log: log}
}

// Create stores a new pending debt. When an idempotency key was already used
// by the same caller, the debt created the first time is returned instead.
func (s *DebtService) Create(ctx context.Context, caller domain.Identity, in ports.CreateDebtInput) (*ports.CreateDebtResult, error) {
	if err := s.authorize(caller, policy.CreateDebt, policy.Target{OwnerID: in.OwnerID}); err != nil {
		return nil, err
	}
	if in.OwnerID == "" || in.Name == "" || in.Value == 0 || in.DueDate.IsZero() {
		return nil, domain.ErrValidation
	}

	scope := idempotencyScope + ":" + caller.ID
	if s.idem != nil && in.IdempotencyKey != "" {
		if replay := s.replay(ctx, scope, in.IdempotencyKey); replay != nil {
			return &ports.CreateDebtResult{Debt: replay, AlreadyExisted: true}, nil
		}
	}

	if err := s.ensureOwner(ctx, in.OwnerID); err != nil {
		return nil, err
	}

	debt, err := s.debts.Create(ctx, &domain.Debt{
		OwnerID: in.OwnerID,
		Name:    in.Name,
		Value:   in.Value,
		DueDate: in.DueDate,
		Status:  domain.DebtPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, scope, in.IdempotencyKey, debt.ID, s.keyTTL); err != nil {
			s.log.Warn().Err(err).Str("debt_id", debt.ID).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().Str("debt_id", debt.ID).Str("owner_id", debt.OwnerID).Msg("debt created")
	s.audit.Enqueue(domain.AuditEntry{ActorID: caller.ID, Action: domain.AuditDebtCreated, TargetID: debt.ID})
	return &ports.CreateDebtResult{Debt: debt}, nil
}

func (s *DebtService) List(ctx context.Context, caller domain.Identity, userID string) ([]*domain.Debt, error) {
	if err := s.authorize(caller, policy.ListDebts, policy.Target{UserID: userID}); err != nil {
		return nil, err
	}

	var (
		debts []*domain.Debt
		err   error
	)
	if caller.Role.IsAdmin() {
		debts, err = s.debts.List(ctx)
	} else {
		debts, err = s.debts.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return debts, nil
}

func (s *DebtService) UpdateStatus(ctx context.Context, caller domain.Identity, debtID string, status domain.DebtStatus) (*domain.Debt, error) {
	if _, err := domain.ParseDebtStatus(string(status)); err != nil {
		return nil, err
	}

	debt, err := s.debts.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, policy.UpdateDebtStatus, policy.Target{OwnerID: debt.OwnerID}); err != nil {
		return nil, err
	}

	updated, err := s.debts.UpdateStatus(ctx, debt.ID, status)
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update debt status: %w", err)
	}

	s.audit.Enqueue(domain.AuditEntry{
		ActorID:  caller.ID,
		Action:   domain.AuditDebtStatusUpdated,
		TargetID: updated.ID,
		Detail:   string(debt.Status) + " -> " + string(status),
	})
	return updated, nil
}

// Edit replaces every field of a debt. Admin only.
func (s *DebtService) Edit(ctx context.Context, caller domain.Identity, debtID string, in ports.EditDebtInput) (*domain.Debt, error) {
	if err := s.authorize(caller, policy.EditDebt, policy.Target{OwnerID: in.OwnerID}); err != nil {
		return nil, err
	}
	if in.OwnerID == "" || in.Name == "" || in.Value == 0 || in.DueDate.IsZero() || in.Status == "" {
		return nil, domain.ErrValidation
	}
	if _, err := domain.ParseDebtStatus(string(in.Status)); err != nil {
		return nil, err
	}

	debt, err := s.debts.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if in.OwnerID != debt.OwnerID {
		if err := s.ensureOwner(ctx, in.OwnerID); err != nil {
			return nil, err
		}
	}

	debt.OwnerID = in.OwnerID
	debt.Name = in.Name
	debt.Value = in.Value
	debt.DueDate = in.DueDate
	debt.Status = in.Status

	updated, err := s.debts.Update(ctx, debt)
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("edit debt: %w", err)
	}

	s.audit.Enqueue(domain.AuditEntry{ActorID: caller.ID, Action: domain.AuditDebtEdited, TargetID: updated.ID})
	return updated, nil
}

func (s *DebtService) Delete(ctx context.Context, caller domain.Identity, debtID string) error {
	if err := s.authorize(caller, policy.DeleteDebt, policy.Target{}); err != nil {
		return err
	}
	if err := s.debts.Delete(ctx, debtID); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}

	s.audit.Enqueue(domain.AuditEntry{ActorID: caller.ID, Action: domain.AuditDebtDeleted, TargetID: debtID})
	return nil
}

// replay returns the debt previously created under key, or nil. Store
// failures are logged and treated as a miss.
func (s *DebtService) replay(ctx context.Context, scope, key string) *domain.Debt {
	id, err := s.idem.Lookup(ctx, scope, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if id == "" {
		return nil
	}
	debt, err := s.debts.FindByID(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Str("debt_id", id).Msg("idempotent debt no longer readable")
		return nil
	}
	s.log.Info().Str("idempotency_key", key).Str("debt_id", id).Msg("idempotent replay")
	return debt
}

func (s *DebtService) ensureOwner(ctx context.Context, ownerID string) error {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrOwnerNotFound
		}
		return fmt.Errorf("lookup debt owner: %w", err)
	}
	return nil
}

func (s *DebtService) authorize(caller domain.Identity, op policy.Operation, t policy.Target) error {
	if err := policy.Authorize(caller, op, t); err != nil {
		s.log.Debug().Str("caller_id", caller.ID).Str("operation", op.String()).Msg("policy denied")
		return err
	}
	return nil
}
