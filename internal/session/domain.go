// internal/session/domain.go
package session

// User is the identity every per-user store keys its entities by.
type User struct {
	ID       int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// IsAdmin reports whether the user may manage the catalog. The server
// enforces this on every admin route; the flag only drives the UI.
func (u User) IsAdmin() bool { return u.Role == "ADMIN" }

// Session pairs the authenticated user with their credential token.
type Session struct {
	User  User
	Token string
}
