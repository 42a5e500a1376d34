// internal/fees/service.go
package fees

import "context"

// Service defines the interface for the fees store.
type Service interface {
	Load(ctx context.Context) (float64, error)
	Pay(ctx context.Context) error
	Balance() float64
	Outstanding() bool
	Reset()
}
