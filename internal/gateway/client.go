// Package gateway is the thin HTTP client every store talks through.
// It attaches the session token, normalizes success and error shapes,
// and clears the stored token when the server answers 401.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps how much of a response we read into memory.
const maxBodyBytes = 8 << 20

// TokenSource supplies the current session token. Clear is invoked as a
// side effect of a 401 response; redirecting the user afterwards is a
// page-level concern, not ours.
type TokenSource interface {
	Token() (string, bool)
	Clear()
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  zerolog.Logger
}

// Client issues authenticated and unauthenticated calls against the
// bookshelf API and returns either a Payload or an *APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// New creates a gateway client. Timeout defaults to 30s.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     cfg.Tokens,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "bookshelf-api",
		}),
		logger: cfg.Logger,
		tracer: otel.Tracer("bookshelf/gateway"),
	}
}

// Payload is a successful (2xx) response.
type Payload struct {
	Status int
	Header http.Header
	Body   []byte
}

// IsJSON reports whether the response declared a JSON content type.
func (p *Payload) IsJSON() bool {
	return strings.Contains(p.Header.Get("Content-Type"), "application/json")
}

// Text returns the raw body as text.
func (p *Payload) Text() string { return string(p.Body) }

// Decode unmarshals a JSON payload into target. A 2xx response whose
// body cannot be decoded is surfaced as an *APIError so the stores
// classify it as a server failure.
func (p *Payload) Decode(target any) error {
	if !p.IsJSON() {
		return &APIError{Status: p.Status, Body: fmt.Sprintf("expected JSON response, got %q", p.Header.Get("Content-Type"))}
	}
	if err := json.Unmarshal(p.Body, target); err != nil {
		return &APIError{Status: p.Status, Body: fmt.Sprintf("malformed response body: %v", err)}
	}
	return nil
}

// Do issues a request with an optional JSON body. On a status outside
// [200,300) it returns an *APIError carrying the raw response body as
// diagnostic text.
func (c *Client) Do(ctx context.Context, method, path string, body any, requiresAuth bool) (*Payload, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.roundTrip(ctx, method, path, reader, contentType, requiresAuth)
}

// JSON issues a request and decodes the JSON response into target.
// A nil target discards the body.
func (c *Client) JSON(ctx context.Context, method, path string, body any, requiresAuth bool, target any) error {
	payload, err := c.Do(ctx, method, path, body, requiresAuth)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	return payload.Decode(target)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader, contentType string, requiresAuth bool) (*Payload, error) {
	ctx, span := c.tracer.Start(ctx, "gateway.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	if requiresAuth && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.breaker.Execute(func() (any, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		c.logger.Warn().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return nil, &APIError{Err: err}
	}
	resp := res.(*http.Response)
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &APIError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		c.tokens.Clear()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request rejected")
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	return &Payload{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}
