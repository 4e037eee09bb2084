package domain

import (
	"strings"
	"time"
)

// DebtStatus represents the payment state of a debt.
type DebtStatus string

const (
	DebtPending   DebtStatus = "pending"
	DebtScheduled DebtStatus = "scheduled"
	DebtPaid      DebtStatus = "paid"
)

// ParseDebtStatus converts a wire value into a DebtStatus.
func ParseDebtStatus(s string) (DebtStatus, error) {
	switch DebtStatus(s) {
	case DebtPending, DebtScheduled, DebtPaid:
		return DebtStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Debt is an amount owed by the user referenced in OwnerID.
type Debt struct {
	ID      string     `json:"id"`
	OwnerID string     `json:"userId"`
	Name    string     `json:"name"`
	Value   float64    `json:"value"`
	DueDate time.Time  `json:"dueDate"`
	Status  DebtStatus `json:"status"`
}

const dateLayout = "2006-01-02"

// ParseDueDate accepts a calendar date (2006-01-02) or an RFC 3339
// timestamp and truncates it to UTC midnight.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, ErrInvalidDueDate
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
