package redisad

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"drivent/internal/adapters/observability"
)

// SessionKey is where the sign-in service stores the owning user id of a bearer token.
func SessionKey(token string) string { return "session:" + token }

type Sessions struct{ c *redis.Client }

func New(addr, pass string, db int) *Sessions {
	return &Sessions{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (s *Sessions) UserIDForToken(ctx context.Context, token string) (int64, bool, error) {
	id, err := s.c.Get(ctx, SessionKey(token)).Int64()
	if errors.Is(err, redis.Nil) {
		observability.ObserveSession("miss")
		return 0, false, nil
	}
	if err != nil {
		observability.ObserveSession("error")
		return 0, false, err
	}
	observability.ObserveSession("hit")
	return id, true, nil
}

func (s *Sessions) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *Sessions) Close() error { return s.c.Close() }
