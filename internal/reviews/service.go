// internal/reviews/service.go
package reviews

import "context"

// Service defines the interface for the reviews store.
type Service interface {
	LoadByBookID(ctx context.Context, bookID int64) ([]Review, error)
	Add(ctx context.Context, review Review) error
	Reviews() []Review
	AverageRating() float64
}
