package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debttracker/debt-api/internal/core/domain"
)

var (
	admin = domain.Identity{ID: "admin-1", Role: domain.RoleAdmin, Username: "root"}
	alice = domain.Identity{ID: "alice-1", Role: domain.RoleClient, Username: "alice"}
	bob   = domain.Identity{ID: "bob-1", Role: domain.RoleClient, Username: "bob"}
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name   string
		caller domain.Identity
		op     Operation
		target Target
		want   bool
	}{
		{"view self", alice, ViewUser, Target{UserID: alice.ID}, true},
		{"view other as client", alice, ViewUser, Target{UserID: bob.ID}, false},
		{"view other as admin", admin, ViewUser, Target{UserID: bob.ID}, true},

		{"list users as admin", admin, ListUsers, Target{}, true},
		{"list users as client", alice, ListUsers, Target{}, false},

		{"update self", alice, UpdateUser, Target{UserID: alice.ID}, true},
		{"update other as client", alice, UpdateUser, Target{UserID: bob.ID}, false},
		{"update other as admin", admin, UpdateUser, Target{UserID: bob.ID}, true},

		{"change own role as client", alice, UpdateUserRole, Target{UserID: alice.ID}, false},
		{"change role as admin", admin, UpdateUserRole, Target{UserID: alice.ID}, true},

		{"delete self", alice, DeleteUser, Target{UserID: alice.ID}, true},
		{"delete other as client", alice, DeleteUser, Target{UserID: bob.ID}, false},
		{"delete other as admin", admin, DeleteUser, Target{UserID: bob.ID}, true},

		{"create debt as admin", admin, CreateDebt, Target{OwnerID: alice.ID}, true},
		{"create debt as client", alice, CreateDebt, Target{OwnerID: alice.ID}, false},

		{"list own debts", alice, ListDebts, Target{UserID: alice.ID}, true},
		{"list other debts as client", alice, ListDebts, Target{UserID: bob.ID}, false},
		{"list debts as admin", admin, ListDebts, Target{UserID: bob.ID}, true},

		{"status on own debt", alice, UpdateDebtStatus, Target{OwnerID: alice.ID}, true},
		{"status on other debt", alice, UpdateDebtStatus, Target{OwnerID: bob.ID}, false},
		{"status as admin", admin, UpdateDebtStatus, Target{OwnerID: bob.ID}, true},

		{"edit own debt as client", alice, EditDebt, Target{OwnerID: alice.ID}, false},
		{"edit debt as admin", admin, EditDebt, Target{OwnerID: alice.ID}, true},

		{"delete own debt as client", alice, DeleteDebt, Target{OwnerID: alice.ID}, false},
		{"delete debt as admin", admin, DeleteDebt, Target{OwnerID: alice.ID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.caller, tt.op, tt.target))
		})
	}
}

func TestAllowed_EmptyTargetNeverMatchesSelf(t *testing.T) {
	anon := domain.Identity{Role: domain.RoleClient}
	assert.False(t, Allowed(anon, ViewUser, Target{}))
	assert.False(t, Allowed(alice, UpdateDebtStatus, Target{}))
}

func TestAllowed_UnknownRoleIsNotAdmin(t *testing.T) {
	typo := domain.Identity{ID: "x", Role: domain.Role("Admin")}
	assert.False(t, Allowed(typo, ListUsers, Target{}))
	assert.False(t, Allowed(typo, DeleteDebt, Target{}))
}

func TestAllowed_UnknownOperation(t *testing.T) {
	assert.False(t, Allowed(admin, Operation(99), Target{}))
	assert.Equal(t, "operation(99)", Operation(99).String())
}

func TestAuthorize(t *testing.T) {
	require.NoError(t, Authorize(admin, EditDebt, Target{}))

	err := Authorize(alice, EditDebt, Target{OwnerID: alice.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Contains(t, err.Error(), "edit_debt")
}
