package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda leaderboards montados, com TTL curto. A recomputação é
// barata; o cache só corta o custo de rajadas de leitura.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyBoard(roundID, category string) string {
	return "leaderboard:" + roundID + ":" + category
}

func keyPaperBoard(roundID string) string {
	return "leaderboard:paperbets:" + roundID
}

func (c *Cache) GetBoard(ctx context.Context, roundID, category string, dst any) (bool, error) {
	return c.get(ctx, keyBoard(roundID, category), dst)
}

func (c *Cache) SetBoard(ctx context.Context, roundID, category string, v any, ttl time.Duration) error {
	return c.set(ctx, keyBoard(roundID, category), v, ttl)
}

func (c *Cache) GetPaperBoard(ctx context.Context, roundID string, dst any) (bool, error) {
	return c.get(ctx, keyPaperBoard(roundID), dst)
}

func (c *Cache) SetPaperBoard(ctx context.Context, roundID string, v any, ttl time.Duration) error {
	return c.set(ctx, keyPaperBoard(roundID), v, ttl)
}

// InvalidateBoards remove todos os leaderboards cacheados. Chamado quando
// um resultado entra, muda ou some.
func (c *Cache) InvalidateBoards(ctx context.Context) error {
	iter := c.R.Scan(ctx, 0, "leaderboard:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.R.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, key, b, ttl).Err()
}
