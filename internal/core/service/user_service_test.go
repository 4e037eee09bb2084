package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/ports"
)

type userFixture struct {
	users *stubUserRepo
	debts *stubDebtRepo
	audit *recordingAudit
	svc   *UserService
	admin domain.Identity
	alice domain.Identity
	bob   domain.Identity
}

func newUserFixture() *userFixture {
	f := &userFixture{users: newStubUserRepo(), debts: newStubDebtRepo(), audit: &recordingAudit{}}
	f.svc = NewUserService(f.users, f.debts, f.audit, bcrypt.MinCost, discardLogger)
	f.admin = domain.IdentityOf(seedUser(f.users, "root", "pw", domain.RoleAdmin))
	f.alice = domain.IdentityOf(seedUser(f.users, "alice", "p1", domain.RoleClient))
	f.bob = domain.IdentityOf(seedUser(f.users, "bob", "p2", domain.RoleClient))
	return f
}

func TestUserService_Get(t *testing.T) {
	f := newUserFixture()

	u, err := f.svc.Get(context.Background(), f.alice, f.alice.ID)
	if err != nil || u.Username != "alice" {
		t.Fatalf("self view failed: %v %+v", err, u)
	}
	if _, err := f.svc.Get(context.Background(), f.admin, f.bob.ID); err != nil {
		t.Fatalf("admin view failed: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.alice, f.bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.admin, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	f := newUserFixture()

	users, err := f.svc.List(context.Background(), f.admin)
	if err != nil || len(users) != 3 {
		t.Fatalf("expected 3 users, got %d (%v)", len(users), err)
	}
	if _, err := f.svc.List(context.Background(), f.alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Update_Self(t *testing.T) {
	f := newUserFixture()

	u, err := f.svc.Update(context.Background(), f.alice, f.alice.ID, ports.UpdateUserInput{Username: "alicia", Password: "new"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if u.Username != "alicia" {
		t.Fatalf("username not updated: %s", u.Username)
	}
	stored := f.users.byID[f.alice.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new")) != nil {
		t.Fatal("password not rehashed")
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != domain.AuditUserUpdated {
		t.Fatalf("unexpected audit trail: %v", got)
	}
}

func TestUserService_Update_OtherUserForbidden(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.Update(context.Background(), f.alice, f.bob.ID, ports.UpdateUserInput{Username: "hacked"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if f.users.byID[f.bob.ID].Username != "bob" {
		t.Fatal("bob must be unchanged")
	}
}

func TestUserService_Update_RoleRequiresAdmin(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.Update(context.Background(), f.alice, f.alice.ID, ports.UpdateUserInput{Username: "queen", Role: "admin"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	stored := f.users.byID[f.alice.ID]
	if stored.Role != domain.RoleClient || stored.Username != "alice" {
		t.Fatalf("rejected update must not persist anything: %+v", stored)
	}

	u, err := f.svc.Update(context.Background(), f.admin, f.alice.ID, ports.UpdateUserInput{Role: "admin"})
	if err != nil || u.Role != domain.RoleAdmin {
		t.Fatalf("admin promotion failed: %v %+v", err, u)
	}
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	f := newUserFixture()

	if _, err := f.svc.Update(context.Background(), f.admin, f.alice.ID, ports.UpdateUserInput{Role: "owner"}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Update_DuplicateUsername(t *testing.T) {
	f := newUserFixture()

	if _, err := f.svc.Update(context.Background(), f.alice, f.alice.ID, ports.UpdateUserInput{Username: "bob"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := f.svc.Update(context.Background(), f.alice, f.alice.ID, ports.UpdateUserInput{Username: "alice"}); err != nil {
		t.Fatalf("keeping own username must succeed: %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	f := newUserFixture()

	if _, err := f.svc.Update(context.Background(), f.admin, "missing", ports.UpdateUserInput{Username: "x"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete_CascadesDebts(t *testing.T) {
	f := newUserFixture()
	seedDebt(f.debts, f.alice.ID, "Rent")
	seedDebt(f.debts, f.alice.ID, "Phone")
	keep := seedDebt(f.debts, f.bob.ID, "Car")

	if err := f.svc.Delete(context.Background(), f.alice, f.alice.ID); err != nil {
		t.Fatalf("self delete failed: %v", err)
	}
	if _, ok := f.users.byID[f.alice.ID]; ok {
		t.Fatal("alice should be gone")
	}
	left, _ := f.debts.ListByOwner(context.Background(), f.alice.ID)
	if len(left) != 0 {
		t.Fatalf("expected no debts for alice, got %d", len(left))
	}
	if _, ok := f.debts.byID[keep.ID]; !ok {
		t.Fatal("bob's debt must survive")
	}
	entry := f.audit.entries[len(f.audit.entries)-1]
	if entry.Action != domain.AuditUserDeleted || entry.Detail != "2 debts removed" {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
}

func TestUserService_Delete_Authorization(t *testing.T) {
	f := newUserFixture()
	seedDebt(f.debts, f.bob.ID, "Car")

	if err := f.svc.Delete(context.Background(), f.alice, f.bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.debts.byID) != 1 {
		t.Fatal("denied delete must not touch debts")
	}
	if err := f.svc.Delete(context.Background(), f.admin, f.bob.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.admin, f.bob.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
