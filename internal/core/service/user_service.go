package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/policy"
	"github.com/debttracker/debt-api/internal/core/ports"
)

// UserService manages user records under the authorization policy.
type UserService struct {
	users      ports.UserRepository
	debts      ports.DebtRepository
	audit      ports.AuditRecorder
	bcryptCost int
	log        zerolog.Logger
}

func NewUserService(users ports.UserRepository, debts ports.DebtRepository, audit ports.AuditRecorder, bcryptCost int, log zerolog.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = defaultBcryptCost
	}
	if audit == nil {
		audit = nopRecorder{}
	}
	return &UserService{users: users, debts: debts, audit: audit, bcryptCost: bcryptCost, log: log}
}

func (s *UserService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.User, error) {
	if err := s.authorize(caller, policy.ViewUser, policy.Target{UserID: id}); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, caller domain.Identity) ([]*domain.User, error) {
	if err := s.authorize(caller, policy.ListUsers, policy.Target{}); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies the non-empty fields of in. Every check runs before the
// single write, so a rejected request leaves the record untouched.
func (s *UserService) Update(ctx context.Context, caller domain.Identity, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := policy.Target{UserID: user.ID}
	if err := s.authorize(caller, policy.UpdateUser, target); err != nil {
		return nil, err
	}

	var role domain.Role
	if in.Role != "" {
		if err := s.authorize(caller, policy.UpdateUserRole, target); err != nil {
			return nil, err
		}
		if role, err = domain.ParseRole(in.Role); err != nil {
			return nil, err
		}
	}

	if in.Username != "" && in.Username != user.Username {
		other, err := s.users.FindByUsername(ctx, in.Username)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, domain.ErrUserExists
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update user: lookup username: %w", err)
		}
		user.Username = in.Username
	}

	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if role != "" {
		user.Role = role
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.audit.Enqueue(domain.AuditEntry{ActorID: caller.ID, Action: domain.AuditUserUpdated, TargetID: updated.ID})
	return updated, nil
}

// Delete removes the owned debts first, then the user. The two deletes are
// independent operations; a failure between them leaves the user in place
// with no debts.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(caller, policy.DeleteUser, policy.Target{UserID: user.ID}); err != nil {
		return err
	}

	removed, err := s.debts.DeleteByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("delete user debts: %w", err)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("actor_id", caller.ID).
		Int64("debts_removed", removed).
		Msg("user deleted")
	s.audit.Enqueue(domain.AuditEntry{
		ActorID:  caller.ID,
		Action:   domain.AuditUserDeleted,
		TargetID: user.ID,
		Detail:   fmt.Sprintf("%d debts removed", removed),
	})
	return nil
}

func (s *UserService) authorize(caller domain.Identity, op policy.Operation, t policy.Target) error {
	if err := policy.Authorize(caller, op, t); err != nil {
		s.log.Debug().Str("caller_id", caller.ID).Str("operation", op.String()).Msg("policy denied")
		return err
	}
	return nil
}
