package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-signing-secret")

	raw, err := httpx.SignAccessToken(secret, "user-1", "ADMIN", time.Hour)
	require.NoError(t, err)

	claims, err := httpx.VerifyAccessToken(secret, raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "ADMIN", claims.Role)

	_, err = httpx.VerifyAccessToken([]byte("different-secret"), raw)
	require.Error(t, err)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-signing-secret")
	raw, err := httpx.SignAccessToken(secret, "user-1", "USER", -time.Minute)
	require.NoError(t, err)

	_, err = httpx.VerifyAccessToken(secret, raw)
	require.Error(t, err)
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	secret := []byte("test-signing-secret")
	var gotUser, gotRole string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = httpx.UserIDFromContext(r.Context())
		gotRole = httpx.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := httpx.Chain(inner, httpx.AuthnMiddleware(secret))

	t.Run("valid token passes claims through", func(t *testing.T) {
		raw, err := httpx.SignAccessToken(secret, "user-7", "USER", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-7", gotUser)
		require.Equal(t, "USER", gotRole)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAnyRole(t *testing.T) {
	t.Parallel()

	secret := []byte("test-signing-secret")
	handler := httpx.Chain(okHandler,
		httpx.AuthnMiddleware(secret),
		httpx.RequireAnyRole("ADMIN", "OWNER"),
	)

	request := func(role string) *httptest.ResponseRecorder {
		raw, err := httpx.SignAccessToken(secret, "user-1", role, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, request("ADMIN").Code)
	require.Equal(t, http.StatusOK, request("OWNER").Code)
	require.Equal(t, http.StatusForbidden, request("USER").Code)
	require.Equal(t, http.StatusForbidden, request("").Code)
}

func TestRequireSharedSecret(t *testing.T) {
	t.Parallel()

	handler := httpx.Chain(okHandler, httpx.RequireSharedSecret("sweep-secret"))

	t.Run("correct secret passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer sweep-secret")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty configured secret disables endpoint", func(t *testing.T) {
		disabled := httpx.Chain(okHandler, httpx.RequireSharedSecret(""))
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer anything")
		rec := httptest.NewRecorder()
		disabled.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	config := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	handler := httpx.Chain(okHandler, httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, hit("10.0.0.1:1000"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1000"))

	// A different client is unaffected.
	require.Equal(t, http.StatusOK, hit("10.0.0.2:1000"))
}
