package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/sessionkit/pkg/gateway"
)

func staticToken(token string) gateway.TokenSource {
	return gateway.TokenSourceFunc(func(ctx context.Context) string { return token })
}

func TestGateway_AttachesBearer(t *testing.T) {
	var gotAuth, gotRequestID string
	r := chi.NewRouter()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	gw := gateway.New(gateway.WithTokenSource(staticToken("tok-42")))
	client := gw.Client(nil)

	resp, err := client.Get(srv.URL + "/users/42")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-42", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestGateway_EmptyTokenSendsNoHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, sawAuth = req.Header["Authorization"]
	}))
	defer srv.Close()

	gw := gateway.New(gateway.WithTokenSource(staticToken("")))
	resp, err := gw.Client(nil).Get(srv.URL + "/contents")
	require.NoError(t, err)
	resp.Body.Close()

	assert.False(t, sawAuth)
}

func TestGateway_UnauthorizedHandling(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	r.Get("/contents", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var torn atomic.Int32
	var rejectedPath atomic.Value

	gw := gateway.New(
		gateway.WithTokenSource(staticToken("expired")),
		gateway.WithProtectedPaths("/users", "/favorites"),
		gateway.WithUnauthorizedHandler(func(path string) {
			torn.Add(1)
			rejectedPath.Store(path)
		}),
	)
	client := gw.Client(nil)

	t.Run("401 on protected path fires the handler", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/users/42")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, int32(1), torn.Load())
		assert.Equal(t, "/users/42", rejectedPath.Load())
	})

	t.Run("401 on unprotected path passes through silently", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/contents")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, int32(1), torn.Load(), "handler must not fire again")
	})
}

func TestGateway_SuccessPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	fired := false
	gw := gateway.New(
		gateway.WithProtectedPaths("/"),
		gateway.WithUnauthorizedHandler(func(string) { fired = true }),
	)

	resp, err := gw.Client(nil).Get(srv.URL + "/users/42")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, fired)
}

func TestGateway_NetworkErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	srv.Close() // dead endpoint

	fired := false
	gw := gateway.New(
		gateway.WithProtectedPaths("/"),
		gateway.WithUnauthorizedHandler(func(string) { fired = true }),
	)

	_, err := gw.Client(nil).Get(srv.URL + "/users/42")
	require.Error(t, err)
	assert.False(t, fired, "network failure is not an authentication failure")
}

func TestGateway_DoesNotOverrideExplicitAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
	}))
	defer srv.Close()

	gw := gateway.New(gateway.WithTokenSource(staticToken("stored")))
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/users/1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer explicit")

	resp, err := gw.Client(nil).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer explicit", gotAuth)
}
