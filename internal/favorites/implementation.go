// internal/favorites/implementation.go
package favorites

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/gateway"
)

// service implements the Service interface.
//
// Membership is fetched from the server once per session and cached as
// a set. Every mutation is pessimistic: the set changes only after the
// server confirms, so a failed add or remove leaves the flag exactly
// where it was.
type service struct {
	api    *gateway.Client
	logger zerolog.Logger

	mu      sync.RWMutex
	fetched bool
	ids     map[int64]struct{}
}

// NewService creates a new favorites store instance.
func NewService(api *gateway.Client, logger zerolog.Logger) Service {
	return &service{
		api:    api,
		logger: logger,
		ids:    map[int64]struct{}{},
	}
}

// IsFavorite reports whether the current user favorited the book,
// fetching the membership set on first use.
func (s *service) IsFavorite(ctx context.Context, bookID int64) (bool, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[bookID]
	return ok, nil
}

// Add marks the book as a favorite. Adding an existing favorite is a
// no-op on the server and leaves the set unchanged here.
func (s *service) Add(ctx context.Context, bookID int64) error {
	if err := s.api.JSON(ctx, http.MethodPost, fmt.Sprintf("/api/favorites/%d", bookID), nil, true, nil); err != nil {
		return errs.From("favorite", err)
	}

	s.mu.Lock()
	s.ids[bookID] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Remove unmarks the book. Removing an absent favorite is likewise a
// no-op.
func (s *service) Remove(ctx context.Context, bookID int64) error {
	if err := s.api.JSON(ctx, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", bookID), nil, true, nil); err != nil {
		return errs.From("favorite", err)
	}

	s.mu.Lock()
	delete(s.ids, bookID)
	s.mu.Unlock()
	return nil
}

// BookIDs returns the favorited book ids in ascending order.
func (s *service) BookIDs(ctx context.Context) ([]int64, error) {
	if err := s.ensureFetched(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Reset drops the cached set so the next read refetches. Called on
// logout.
func (s *service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = false
	s.ids = map[int64]struct{}{}
}

func (s *service) ensureFetched(ctx context.Context) error {
	s.mu.RLock()
	fetched := s.fetched
	s.mu.RUnlock()
	if fetched {
		return nil
	}

	var ids []int64
	if err := s.api.JSON(ctx, http.MethodGet, "/api/favorites", nil, true, &ids); err != nil {
		return errs.From("favorites", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetched {
		return nil
	}
	s.ids = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.fetched = true
	return nil
}
