// internal/session/service.go
package session

import "context"

// Service defines the interface for the auth session store.
type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Register(ctx context.Context, username, email, password string) error
	Logout()
	Current() (User, bool)
	Authenticated() bool
}
