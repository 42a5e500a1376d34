// internal/session/implementation.go
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/gateway"
)

// service implements the Service interface.
type service struct {
	api     *gateway.Client
	tokens  TokenStore
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu      sync.RWMutex
	current *User
}

// NewService creates the session store. If the token store already
// holds a token from a previous run, the session resumes from its
// claims without a network call.
func NewService(api *gateway.Client, tokens TokenStore, logger zerolog.Logger) Service {
	s := &service{
		api:     api,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 login attempts per minute
		logger:  logger,
	}

	if token, ok := tokens.Token(); ok {
		if user, err := userFromToken(token); err == nil {
			s.current = &user
		} else {
			tokens.Clear()
		}
	}

	return s
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates against the API and persists the returned token.
func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	if !s.limiter.Allow() {
		return nil, &errs.ValidationError{Reason: "too many login attempts, try again in a minute"}
	}

	var resp loginResponse
	err := s.api.JSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Username: username, Password: password}, false, &resp)
	if err != nil {
		return nil, errs.From("session", err)
	}

	user, err := userFromToken(resp.Token)
	if err != nil {
		return nil, &errs.ServerError{Status: http.StatusOK, Body: "login response carried an unreadable token"}
	}

	if err := s.tokens.Save(resp.Token); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = &user
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", user.ID).Msg("session started")
	return &Session{User: user, Token: resp.Token}, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account. The caller logs in separately.
func (s *service) Register(ctx context.Context, username, email, password string) error {
	err := s.api.JSON(ctx, http.MethodPost, "/api/auth/register", registerRequest{Username: username, Email: email, Password: password}, false, nil)
	if err != nil {
		return errs.From("session", err)
	}
	return nil
}

// Logout tears the session down and removes the persisted token.
func (s *service) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.tokens.Clear()
}

// Current returns the session user. A token cleared behind our back
// (the gateway's 401 side effect) invalidates the session on the next
// read.
func (s *service) Current() (User, bool) {
	if _, ok := s.tokens.Token(); !ok {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return User{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return User{}, false
	}
	return *s.current, true
}

func (s *service) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// userFromToken extracts identity claims without verifying the
// signature; verification is the server's job on every request.
func userFromToken(token string) (User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return User{}, err
	}

	user := User{}
	if v, ok := claims["userId"].(float64); ok {
		user.ID = int64(v)
	}
	if v, ok := claims["sub"].(string); ok {
		user.Username = v
	}
	if v, ok := claims["username"].(string); ok {
		user.Username = v
	}
	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		user.Role = v
	}
	return user, nil
}
