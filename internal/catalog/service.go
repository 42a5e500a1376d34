// internal/catalog/service.go
package catalog

import "context"

// Service defines the interface for the book catalog store.
type Service interface {
	LoadAll(ctx context.Context) ([]Book, error)
	LoadByID(ctx context.Context, id int64) (Book, error)
	SearchByTitle(ctx context.Context, query string) ([]Book, error)
	FilterByCategory(ctx context.Context, category string) ([]Book, error)
	Create(ctx context.Context, form BookForm) (Book, error)
	Update(ctx context.Context, id int64, form BookForm) (Book, error)
	Delete(ctx context.Context, id int64) error

	Books() []Book
	Get(id int64) (Book, bool)
	AdjustAvailability(id int64, delta int)
}
