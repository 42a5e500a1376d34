// internal/circulation/service.go
package circulation

import (
	"context"

	"github.com/alestoica/online-bookshelf/internal/catalog"
)

// Catalog is the slice of the catalog store the loans store needs: a
// read-only view plus the catalog-owned availability hook applied after
// a confirmed loan or return.
type Catalog interface {
	Get(id int64) (catalog.Book, bool)
	AdjustAvailability(id int64, delta int)
}

// Service defines the interface for the loans store.
type Service interface {
	LoadCurrent(ctx context.Context) ([]Loan, error)
	LoanBook(ctx context.Context, bookID int64) error
	ReturnBook(ctx context.Context, bookID int64) error

	Current() []Loan
	IsLoanedByUser(bookID int64) bool
	HasOverdue() bool
	Reset()
}
