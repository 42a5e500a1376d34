// internal/favorites/service.go
package favorites

import "context"

// Service defines the interface for the favorites store.
type Service interface {
	IsFavorite(ctx context.Context, bookID int64) (bool, error)
	Add(ctx context.Context, bookID int64) error
	Remove(ctx context.Context, bookID int64) error
	BookIDs(ctx context.Context) ([]int64, error)
	Reset()
}
