package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Identity é o que o serviço de auth externo devolve para um token.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

var ErrUnauthenticated = errors.New("unauthenticated")

// Client resolve bearer tokens em identidade/email chamando o serviço
// de auth externo. A resolução é cacheada por pouco tempo no Redis pra
// não bater no auth a cada request.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Rdb     *redis.Client
	TTL     time.Duration
}

func New(base string, rdb *redis.Client) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
		Rdb:     rdb,
		TTL:     60 * time.Second,
	}
}

func cacheKey(token string) string { return "auth:token:" + token }

// Resolve troca um bearer token por uma identidade.
// Token inválido ou expirado retorna ErrUnauthenticated.
func (c *Client) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	// cache primeiro
	if c.Rdb != nil {
		if b, err := c.Rdb.Get(ctx, cacheKey(token)).Bytes(); err == nil {
			var id Identity
			if json.Unmarshal(b, &id) == nil {
				return id, nil
			}
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/userinfo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return Identity{}, ErrUnauthenticated
	}
	if res.StatusCode >= 300 {
		return Identity{}, fmt.Errorf("auth userinfo http %d", res.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(res.Body).Decode(&id); err != nil {
		return Identity{}, err
	}
	id.Email = strings.ToLower(id.Email)

	if c.Rdb != nil {
		b, _ := json.Marshal(id)
		_ = c.Rdb.Set(ctx, cacheKey(token), b, c.TTL).Err()
	}
	return id, nil
}

// BearerToken extrai o token do header Authorization.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}
