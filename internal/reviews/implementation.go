// internal/reviews/implementation.go
package reviews

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/gateway"
)

// service implements the Service interface.
//
// The store holds the reviews of the last loaded book in the order the
// server returned them. Add does not append locally: the server assigns
// the identifier, so the caller re-runs LoadByBookID for the
// authoritative collection rather than risking a divergent entry.
type service struct {
	api    *gateway.Client
	logger zerolog.Logger

	mu      sync.RWMutex
	reviews []Review
}

// NewService creates a new reviews store instance.
func NewService(api *gateway.Client, logger zerolog.Logger) Service {
	return &service{api: api, logger: logger}
}

// LoadByBookID fetches a book's reviews, preserving server order.
func (s *service) LoadByBookID(ctx context.Context, bookID int64) ([]Review, error) {
	var reviews []Review
	path := fmt.Sprintf("/api/reviews/%d", bookID)
	if err := s.api.JSON(ctx, http.MethodGet, path, nil, false, &reviews); err != nil {
		return nil, errs.From("reviews", err)
	}

	s.mu.Lock()
	s.reviews = reviews
	s.mu.Unlock()
	return s.Reviews(), nil
}

// Add submits a review after local validation.
func (s *service) Add(ctx context.Context, review Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	review.Description = strings.TrimSpace(review.Description)

	if err := s.api.JSON(ctx, http.MethodPost, "/api/reviews", review, true, nil); err != nil {
		return errs.From("review", err)
	}

	s.logger.Info().Int64("book_id", review.BookID).Int("rating", review.Rating).Msg("review submitted")
	return nil
}

// Reviews returns a copy of the loaded collection.
func (s *service) Reviews() []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// AverageRating is the general rating of the loaded book, zero when no
// reviews are loaded.
func (s *service) AverageRating() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range s.reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(s.reviews))
}
