package session_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/gateway"
	"github.com/alestoica/online-bookshelf/internal/session"
	"github.com/alestoica/online-bookshelf/internal/testutil"
)

func newSession(t *testing.T, api *testutil.FakeAPI) (session.Service, session.TokenStore) {
	t.Helper()
	client, tokens := testutil.NewClient(t, api, "")
	return session.NewService(client, tokens, zerolog.Nop()), tokens
}

func Test_Login_PopulatesUserFromClaims(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	svc, tokens := newSession(t, api)

	sess, err := svc.Login(context.Background(), "alice", "wonder")
	require.NoError(t, err)

	assert.Equal(t, int64(1), sess.User.ID)
	assert.Equal(t, "alice", sess.User.Username)
	assert.False(t, sess.User.IsAdmin())

	stored, ok := tokens.Token()
	require.True(t, ok)
	assert.Equal(t, sess.Token, stored)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", current.Username)
}

func Test_Login_BadCredentials(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	svc, tokens := newSession(t, api)

	_, err := svc.Login(context.Background(), "alice", "wrong")

	assert.True(t, errs.IsAuth(err))
	_, ok := tokens.Token()
	assert.False(t, ok)
	assert.False(t, svc.Authenticated())
}

func Test_Login_RateLimited(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	svc, _ := newSession(t, api)

	var err error
	for i := 0; i < 6; i++ {
		_, err = svc.Login(context.Background(), "alice", "wrong")
	}

	assert.True(t, errs.IsValidation(err), "sixth attempt inside a minute must be rejected locally")
	assert.Equal(t, 5, api.Requests(http.MethodPost, "/api/auth/login"))
}

func Test_Register_ThenLogin(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	svc, _ := newSession(t, api)

	require.NoError(t, svc.Register(context.Background(), "bob", "bob@example.com", "builder"))

	sess, err := svc.Login(context.Background(), "bob", "builder")
	require.NoError(t, err)
	assert.Equal(t, "bob", sess.User.Username)
}

func Test_Register_DuplicateUsername(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	svc, _ := newSession(t, api)

	err := svc.Register(context.Background(), "alice", "other@example.com", "pw")
	assert.True(t, errs.IsValidation(err))
}

func Test_Logout_TearsDownSession(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	svc, tokens := newSession(t, api)

	_, err := svc.Login(context.Background(), "alice", "wonder")
	require.NoError(t, err)

	svc.Logout()

	_, ok := tokens.Token()
	assert.False(t, ok)
	assert.False(t, svc.Authenticated())
}

func Test_Current_InvalidatedWhenTokenClearedBehindOurBack(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	svc, tokens := newSession(t, api)

	_, err := svc.Login(context.Background(), "alice", "wonder")
	require.NoError(t, err)

	// The gateway clears the token as its 401 side effect.
	tokens.Clear()

	_, ok := svc.Current()
	assert.False(t, ok)
}

func Test_SessionResumesFromPersistedToken(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	tokens := session.NewFileTokenStore(path)
	require.NoError(t, tokens.Save(api.Token("root")))

	client := gateway.New(gateway.Config{BaseURL: api.URL(), Tokens: tokens, Logger: zerolog.Nop()})
	svc := session.NewService(client, tokens, zerolog.Nop())

	user, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "root", user.Username)
	assert.True(t, user.IsAdmin())
}
