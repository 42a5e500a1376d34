package favorites_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/alestoica/online-bookshelf/internal/errs"
	"github.com/alestoica/online-bookshelf/internal/favorites"
	"github.com/alestoica/online-bookshelf/internal/gateway"
	"github.com/alestoica/online-bookshelf/internal/session"
	"github.com/alestoica/online-bookshelf/internal/testutil"
)

func newStore(t *testing.T, api *testutil.FakeAPI) favorites.Service {
	t.Helper()
	client, _ := testutil.NewClient(t, api, "alice")
	return favorites.NewService(client, zerolog.Nop())
}

func Test_IsFavorite_FetchesOncePerSession(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	api.SeedFavorite(7)
	store := newStore(t, api)

	fav, err := store.IsFavorite(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = store.IsFavorite(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, fav)

	assert.Equal(t, 1, api.Requests(http.MethodGet, "/api/favorites"), "membership set is cached after the first read")
}

func Test_AddThenRemove_RoundTrip(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	store := newStore(t, api)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, 42))
	fav, err := store.IsFavorite(ctx, 42)
	require.NoError(t, err)
	assert.True(t, fav)

	require.NoError(t, store.Remove(ctx, 42))
	fav, err = store.IsFavorite(ctx, 42)
	require.NoError(t, err)
	assert.False(t, fav)
}

func Test_FailedAdd_LeavesMembershipUnchanged(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	store := newStore(t, api)
	ctx := context.Background()

	before, err := store.IsFavorite(ctx, 42)
	require.NoError(t, err)

	api.FailNext(http.MethodPost, "/api/favorites/42", http.StatusInternalServerError, "boom")
	err = store.Add(ctx, 42)
	assert.True(t, errs.IsServer(err))

	after, err := store.IsFavorite(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed add must not flip the local flag")
}

func Test_FailedRemove_LeavesMembershipUnchanged(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	api.SeedFavorite(42)
	store := newStore(t, api)
	ctx := context.Background()

	api.FailNext(http.MethodDelete, "/api/favorites/42", http.StatusInternalServerError, "boom")
	err := store.Remove(ctx, 42)
	assert.True(t, errs.IsServer(err))

	fav, err := store.IsFavorite(ctx, 42)
	require.NoError(t, err)
	assert.True(t, fav, "a failed remove must not flip the local flag")
}

// Whatever the starting state, the final membership matches the last
// operation in any add/remove sequence.
func Test_Toggle_LastOperationWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		api := testutil.NewFakeAPI()
		defer api.Close()

		const bookID = int64(42)
		if rapid.Bool().Draw(t, "initiallyFavorited") {
			api.SeedFavorite(bookID)
		}

		tokens := session.NewMemoryTokenStore()
		if err := tokens.Save(api.Token("alice")); err != nil {
			t.Fatalf("save token: %v", err)
		}
		client := gateway.New(gateway.Config{BaseURL: api.URL(), Tokens: tokens, Logger: zerolog.Nop()})
		store := favorites.NewService(client, zerolog.Nop())
		ctx := context.Background()

		ops := rapid.SliceOfN(rapid.Bool(), 1, 8).Draw(t, "ops")
		var last bool
		for _, add := range ops {
			if add {
				if err := store.Add(ctx, bookID); err != nil {
					t.Fatalf("add failed: %v", err)
				}
			} else {
				if err := store.Remove(ctx, bookID); err != nil {
					t.Fatalf("remove failed: %v", err)
				}
			}
			last = add
		}

		fav, err := store.IsFavorite(ctx, bookID)
		if err != nil {
			t.Fatalf("isFavorite failed: %v", err)
		}
		if fav != last {
			t.Fatalf("membership %v after ops %v, want %v", fav, ops, last)
		}
	})
}
