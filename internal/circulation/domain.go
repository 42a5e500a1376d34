// internal/circulation/domain.go
package circulation

import (
	"math"
	"time"
)

// Loan is one active loan of the current user. At most one active loan
// exists per (user, book); returning it removes the record.
type Loan struct {
	ID       int64     `json:"loanId"`
	UserID   int64     `json:"userId"`
	BookID   int64     `json:"bookId"`
	LoanDate time.Time `json:"loanDate"`
	DueDate  time.Time `json:"dueDate"`
}

// DaysLeft is the number of days until the due date, rounded up.
// It is derived on read, never stored.
func (l Loan) DaysLeft(now time.Time) int {
	return int(math.Ceil(l.DueDate.Sub(now).Hours() / 24))
}

// Overdue reports whether the due date has passed. Overdue is a
// sub-state of an active loan, not a terminal one.
func (l Loan) Overdue(now time.Time) bool {
	return l.DaysLeft(now) <= 0
}
