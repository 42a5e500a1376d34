// Package app wires the stores into one explicit, session-scoped
// object. Pages receive an *App by reference; nothing here is an
// ambient global.
package app

import (
	"github.com/rs/zerolog"

	"github.com/alestoica/online-bookshelf/internal/catalog"
	"github.com/alestoica/online-bookshelf/internal/circulation"
	"github.com/alestoica/online-bookshelf/internal/config"
	"github.com/alestoica/online-bookshelf/internal/favorites"
	"github.com/alestoica/online-bookshelf/internal/fees"
	"github.com/alestoica/online-bookshelf/internal/gateway"
	"github.com/alestoica/online-bookshelf/internal/reviews"
	"github.com/alestoica/online-bookshelf/internal/session"
)

// App bundles the client's domain-state layer.
type App struct {
	Gateway   *gateway.Client
	Session   session.Service
	Catalog   catalog.Service
	Favorites favorites.Service
	Loans     circulation.Service
	Fees      fees.Service
	Reviews   reviews.Service
}

// New constructs the store graph for one session.
func New(cfg *config.Config, tokens session.TokenStore, logger zerolog.Logger) *App {
	api := gateway.New(gateway.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Tokens:  tokens,
		Logger:  logger,
	})

	cat := catalog.NewService(api, logger)

	return &App{
		Gateway:   api,
		Session:   session.NewService(api, tokens, logger),
		Catalog:   cat,
		Favorites: favorites.NewService(api, logger),
		Loans:     circulation.NewService(api, cat, logger),
		Fees:      fees.NewService(api, logger),
		Reviews:   reviews.NewService(api, logger),
	}
}

// CanLoan is the gating predicate the book detail page uses to enable
// the Loan button: copies on the shelf, not already loaned, no overdue
// loans, no outstanding fees.
func (a *App) CanLoan(bookID int64) bool {
	book, ok := a.Catalog.Get(bookID)
	if !ok || book.AvailableCount <= 0 {
		return false
	}
	if a.Loans.IsLoanedByUser(bookID) || a.Loans.HasOverdue() {
		return false
	}
	return !a.Fees.Outstanding()
}

// Logout tears down all per-user state along with the session.
func (a *App) Logout() {
	a.Session.Logout()
	a.Favorites.Reset()
	a.Loans.Reset()
	a.Fees.Reset()
}
