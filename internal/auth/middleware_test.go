package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type fakeResolver struct {
	tokens map[string]Identity
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (Identity, error) {
	id, ok := f.tokens[token]
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{tokens: map[string]Identity{
		"tok-alice": {UserID: "u1", Email: "alice@club.org", Name: "Alice"},
		"tok-bob":   {UserID: "u2", Email: "bob@club.org", Name: "Bob"},
	}}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())
		_, _ = w.Write([]byte(id.Email))
	})
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(zap.NewNop(), newFakeResolver())(okHandler())

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/picks", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/picks", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token injects identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/picks", nil)
		req.Header.Set("Authorization", "Bearer tok-alice")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "alice@club.org" {
			t.Errorf("expected identity in context, got %q", rec.Body.String())
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	allow := NewAllowlist([]string{"alice@club.org"})
	h := RequireAdmin(zap.NewNop(), newFakeResolver(), allow)(okHandler())

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/rounds", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("authenticated but not allowlisted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/rounds", nil)
		req.Header.Set("Authorization", "Bearer tok-bob")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("allowlisted admin", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/rounds", nil)
		req.Header.Set("Authorization", "Bearer tok-alice")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
