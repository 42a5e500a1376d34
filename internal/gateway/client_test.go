package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alestoica/online-bookshelf/internal/gateway"
)

type fakeTokens struct {
	mu    sync.Mutex
	token string
}

func (f *fakeTokens) Token() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeTokens) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
}

func newClient(serverURL string, tokens gateway.TokenSource) *gateway.Client {
	return gateway.New(gateway.Config{
		BaseURL: serverURL,
		Tokens:  tokens,
		Logger:  zerolog.Nop(),
	})
}

func Test_JSON_DecodesSuccessPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Dune"}`))
	}))
	defer server.Close()

	var out struct {
		Title string `json:"title"`
	}
	err := newClient(server.URL, &fakeTokens{}).JSON(context.Background(), http.MethodGet, "/api/books/1", nil, false, &out)

	require.NoError(t, err)
	assert.Equal(t, "Dune", out.Title)
}

func Test_Do_AttachesTokenOnlyWhenRequired(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newClient(server.URL, &fakeTokens{token: "tok-123"})

	_, err := client.Do(context.Background(), http.MethodGet, "/public", nil, false)
	require.NoError(t, err)
	_, err = client.Do(context.Background(), http.MethodGet, "/private", nil, true)
	require.NoError(t, err)

	require.Len(t, gotAuth, 2)
	assert.Empty(t, gotAuth[0])
	assert.Equal(t, "Bearer tok-123", gotAuth[1])
}

func Test_Do_NonSuccessCarriesRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("already loaned"))
	}))
	defer server.Close()

	_, err := newClient(server.URL, &fakeTokens{}).Do(context.Background(), http.MethodPost, "/api/loans/1", nil, false)

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "already loaned", apiErr.Body)
}

func Test_Do_401ClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "stale"}
	_, err := newClient(server.URL, tokens).Do(context.Background(), http.MethodGet, "/api/loans", nil, true)

	require.Error(t, err)
	_, ok := tokens.Token()
	assert.False(t, ok, "401 must clear the stored token")
}

func Test_Do_TransportFailureHasZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing listening anymore

	_, err := newClient(server.URL, &fakeTokens{}).Do(context.Background(), http.MethodGet, "/api/books", nil, false)

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Error(t, errors.Unwrap(apiErr))
}

func Test_Decode_RejectsNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain text"))
	}))
	defer server.Close()

	payload, err := newClient(server.URL, &fakeTokens{}).Do(context.Background(), http.MethodGet, "/raw", nil, false)
	require.NoError(t, err)
	assert.False(t, payload.IsJSON())
	assert.Equal(t, "plain text", payload.Text())

	var out map[string]string
	var apiErr *gateway.APIError
	require.ErrorAs(t, payload.Decode(&out), &apiErr)
}

func Test_DoMultipart_EncodesFieldsAndFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Dune", r.FormValue("title"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cover.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	form := gateway.NewForm()
	form.Set("title", "Dune")
	form.SetFile("image", "cover.png", []byte{0x89, 0x50})

	var out map[string]bool
	err := newClient(server.URL, &fakeTokens{token: "tok"}).DoMultipart(context.Background(), http.MethodPost, "/api/books/admin", form, &out)

	require.NoError(t, err)
	assert.True(t, out["ok"])
}
