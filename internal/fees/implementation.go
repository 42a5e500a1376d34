// internal/fees/implementation.go
package fees

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/gateway"
)

// service implements the Service interface.
//
// The balance is whatever the server currently reports; no accrual
// happens client-side. A nonzero balance gates new loans wherever
// eligibility is checked.
type service struct {
	api    *gateway.Client
	logger zerolog.Logger

	mu      sync.RWMutex
	balance float64
}

// NewService creates a new fees store instance.
func NewService(api *gateway.Client, logger zerolog.Logger) Service {
	return &service{api: api, logger: logger}
}

type feesResponse struct {
	Amount float64 `json:"amount"`
}

// Load fetches the current user's outstanding balance.
func (s *service) Load(ctx context.Context) (float64, error) {
	var resp feesResponse
	if err := s.api.JSON(ctx, http.MethodGet, "/api/payment/fees", nil, true, &resp); err != nil {
		return 0, errs.From("fees", err)
	}

	s.mu.Lock()
	s.balance = resp.Amount
	s.mu.Unlock()
	return resp.Amount, nil
}

// Pay settles the full balance through the server's card charge. The
// local balance drops to zero only after the server confirms.
func (s *service) Pay(ctx context.Context) error {
	s.mu.RLock()
	balance := s.balance
	s.mu.RUnlock()
	if balance == 0 {
		return &errs.ValidationError{Reason: "nothing to pay"}
	}

	if err := s.api.JSON(ctx, http.MethodPost, "/api/payment/pay", nil, true, nil); err != nil {
		return errs.From("payment", err)
	}

	s.mu.Lock()
	s.balance = 0
	s.mu.Unlock()
	s.logger.Info().Float64("amount", balance).Msg("fees paid")
	return nil
}

// Balance returns the last loaded balance.
func (s *service) Balance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// Outstanding reports whether the balance blocks new loans.
func (s *service) Outstanding() bool {
	return s.Balance() != 0
}

// Reset clears the cached balance. Called on logout.
func (s *service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = 0
}
