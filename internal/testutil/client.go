package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alestoica/online-bookshelf/internal/gateway"
	"github.com/alestoica/online-bookshelf/internal/session"
)

// NewClient wires a gateway client against the fake API. A non-empty
// username pre-seeds the token store with a valid token for that user.
func NewClient(t *testing.T, api *FakeAPI, username string) (*gateway.Client, *session.MemoryTokenStore) {
	t.Helper()

	tokens := session.NewMemoryTokenStore()
	if username != "" {
		token := api.Token(username)
		require.NotEmpty(t, token, "unknown fake user %q", username)
		require.NoError(t, tokens.Save(token))
	}

	client := gateway.New(gateway.Config{
		BaseURL: api.URL(),
		Tokens:  tokens,
		Logger:  zerolog.Nop(),
	})
	return client, tokens
}
