// internal/circulation/implementation.go
package circulation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/gateway"
)

// outstandingFeesSignal is the exact body the server answers with when
// fees block a new loan. It is surfaced as a BusinessRuleError so the
// caller can show a dedicated message instead of a generic failure.
const outstandingFeesSignal = "Outstanding fees"

// service implements the Service interface.
//
// The store holds the current user's active loans in server order.
// Overdue status is derived from the due date on every read; there is
// no separately tracked flag to drift from it.
type service struct {
	api     *gateway.Client
	catalog Catalog
	logger  zerolog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	loans []Loan
}

// NewService creates a new loans store instance.
func NewService(api *gateway.Client, cat Catalog, logger zerolog.Logger) Service {
	return &service{
		api:     api,
		catalog: cat,
		logger:  logger,
		now:     time.Now,
	}
}

// LoadCurrent fetches the user's active loans and replaces the local
// sequence.
func (s *service) LoadCurrent(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	if err := s.api.JSON(ctx, http.MethodGet, "/api/loans", nil, true, &loans); err != nil {
		return nil, errs.From("loans", err)
	}

	s.mu.Lock()
	s.loans = loans
	s.mu.Unlock()
	return s.Current(), nil
}

// LoanBook transitions a book from Available to Active for the current
// user.
//
// A book known to have no available copies is rejected locally without
// contacting the server. The server can still refuse, most notably with
// the outstanding-fees signal.
func (s *service) LoanBook(ctx context.Context, bookID int64) error {
	if book, ok := s.catalog.Get(bookID); ok && book.AvailableCount <= 0 {
		return &errs.BusinessRuleError{Rule: "book is currently unavailable"}
	}

	var loan Loan
	err := s.api.JSON(ctx, http.MethodPost, fmt.Sprintf("/api/loans/%d", bookID), nil, true, &loan)
	if err != nil {
		var api *gateway.APIError
		if errors.As(err, &api) &&
			api.Status >= 400 && api.Status < 500 &&
			strings.TrimSpace(api.Body) == outstandingFeesSignal {
			return &errs.BusinessRuleError{Rule: outstandingFeesSignal}
		}
		return errs.From("loan", err)
	}

	s.mu.Lock()
	s.loans = append(s.loans, loan)
	s.mu.Unlock()
	s.catalog.AdjustAvailability(bookID, -1)

	s.logger.Info().Int64("book_id", bookID).Time("due", loan.DueDate).Msg("book loaned")
	return nil
}

// ReturnBook transitions an Active or Overdue loan to Returned: the
// record leaves the active set and the copy goes back on the shelf.
func (s *service) ReturnBook(ctx context.Context, bookID int64) error {
	if !s.IsLoanedByUser(bookID) {
		return &errs.NotFoundError{Resource: "active loan for book", ID: bookID}
	}

	err := s.api.JSON(ctx, http.MethodDelete, fmt.Sprintf("/api/loans/%d", bookID), nil, true, nil)
	if err != nil {
		return errs.From("loan", err)
	}

	s.mu.Lock()
	for i, l := range s.loans {
		if l.BookID == bookID {
			s.loans = append(s.loans[:i], s.loans[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.catalog.AdjustAvailability(bookID, +1)

	s.logger.Info().Int64("book_id", bookID).Msg("book returned")
	return nil
}

// Current returns the active loans in the order the server sent them.
func (s *service) Current() []Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Loan, len(s.loans))
	copy(out, s.loans)
	return out
}

// IsLoanedByUser reports whether an active loan exists for the book.
func (s *service) IsLoanedByUser(bookID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.loans {
		if l.BookID == bookID {
			return true
		}
	}
	return false
}

// HasOverdue reports whether any current loan is past its due date.
// Gating is account-wide: one overdue loan blocks all new loans.
func (s *service) HasOverdue() bool {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.loans {
		if l.Overdue(now) {
			return true
		}
	}
	return false
}

// Reset drops the loaded loans. Called on logout.
func (s *service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans = nil
}
