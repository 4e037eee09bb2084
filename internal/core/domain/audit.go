package domain

import "time"

// AuditAction names a mutation recorded in the audit trail.
type AuditAction string

const (
	AuditUserRegistered    AuditAction = "user.registered"
	AuditUserUpdated       AuditAction = "user.updated"
	AuditUserDeleted       AuditAction = "user.deleted"
	AuditDebtCreated       AuditAction = "debt.created"
	AuditDebtStatusUpdated AuditAction = "debt.status_updated"
	AuditDebtEdited        AuditAction = "debt.edited"
	AuditDebtDeleted       AuditAction = "debt.deleted"
)

// AuditEntry records who changed what, after the change was persisted.
type AuditEntry struct {
	ID       string
	ActorID  string
	Action   AuditAction
	TargetID string
	Detail   string // optional
	At       time.Time
}
