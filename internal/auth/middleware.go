package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type ctxKey int

const identityKey ctxKey = 0

// IdentityFrom recupera a identidade autenticada do contexto da request.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Resolver é a fatia do Client usada pelos middlewares (facilita teste).
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// Allowlist decide quem é admin. Construída uma única vez no start do
// processo a partir da config; nunca relida por request.
type Allowlist map[string]struct{}

func NewAllowlist(emails []string) Allowlist {
	al := make(Allowlist, len(emails))
	for _, e := range emails {
		al[e] = struct{}{}
	}
	return al
}

func (a Allowlist) Contains(email string) bool {
	_, ok := a[email]
	return ok
}

// RequireUser exige bearer token válido; injeta a identidade no contexto.
// Falha de autenticação -> 401.
func RequireUser(log *zap.Logger, res Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := res.Resolve(r.Context(), BearerToken(r))
			if err != nil {
				if err != ErrUnauthenticated {
					log.Warn("auth resolve failed", zap.Error(err))
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

// RequireAdmin exige usuário autenticado E email na allowlist.
// Sem token -> 401; autenticado fora da lista -> 403.
func RequireAdmin(log *zap.Logger, res Resolver, allow Allowlist) func(http.Handler) http.Handler {
	userMW := RequireUser(log, res)
	return func(next http.Handler) http.Handler {
		return userMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := IdentityFrom(r.Context())
			if !allow.Contains(id.Email) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
