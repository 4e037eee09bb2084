// Package policy decides whether an authenticated caller may perform an
// operation on a resource. Decisions are pure: callers load the target
// fresh from the store on every request and pass the attributes in.
package policy

import (
	"fmt"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// Operation identifies a guarded action.
type Operation int

const (
	ViewUser Operation = iota
	ListUsers
	UpdateUser
	UpdateUserRole
	DeleteUser
	CreateDebt
	ListDebts
	UpdateDebtStatus
	EditDebt
	DeleteDebt
)

var operationNames = map[Operation]string{
	ViewUser:         "view_user",
	ListUsers:        "list_users",
	UpdateUser:       "update_user",
	UpdateUserRole:   "update_user_role",
	DeleteUser:       "delete_user",
	CreateDebt:       "create_debt",
	ListDebts:        "list_debts",
	UpdateDebtStatus: "update_debt_status",
	EditDebt:         "edit_debt",
	DeleteDebt:       "delete_debt",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Target carries the resource attributes the rules inspect.
//   - UserID: the user being viewed/updated/deleted, or the userId whose
//     debts are being listed.
//   - OwnerID: the owner of the debt being acted on.
type Target struct {
	UserID  string
	OwnerID string
}

type rule func(caller domain.Identity, t Target) bool

func adminOnly(caller domain.Identity, _ Target) bool {
	return caller.Role.IsAdmin()
}

func selfOrAdmin(caller domain.Identity, t Target) bool {
	return caller.Role.IsAdmin() || (t.UserID != "" && caller.ID == t.UserID)
}

func ownerOrAdmin(caller domain.Identity, t Target) bool {
	return caller.Role.IsAdmin() || (t.OwnerID != "" && caller.ID == t.OwnerID)
}

var rules = map[Operation]rule{
	ViewUser:         selfOrAdmin,
	ListUsers:        adminOnly,
	UpdateUser:       selfOrAdmin,
	UpdateUserRole:   adminOnly,
	DeleteUser:       selfOrAdmin,
	CreateDebt:       adminOnly,
	ListDebts:        selfOrAdmin,
	UpdateDebtStatus: ownerOrAdmin,
	EditDebt:         adminOnly,
	DeleteDebt:       adminOnly,
}

// Allowed reports the policy decision. Unknown operations and callers
// without an id are always denied.
func Allowed(caller domain.Identity, op Operation, t Target) bool {
	if caller.ID == "" {
		return false
	}
	r, ok := rules[op]
	if !ok {
		return false
	}
	return r(caller, t)
}

// Authorize returns domain.ErrForbidden wrapped with the operation name when
// the caller is denied.
func Authorize(caller domain.Identity, op Operation, t Target) error {
	if !Allowed(caller, op, t) {
		return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
	}
	return nil
}
