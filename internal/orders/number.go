package orders

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

type counterIncrementer interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(name string) string
}

// redisNumberGenerator derives order numbers from a per-year Redis counter,
// yielding ORD-<year>-<sequence>.
type redisNumberGenerator struct {
	counter counterIncrementer
}

// NewRedisNumberGenerator builds a NumberGenerator backed by Redis.
func NewRedisNumberGenerator(counter counterIncrementer) (NumberGenerator, error) {
	if counter == nil {
		return nil, fmt.Errorf("redis counter required")
	}
	return &redisNumberGenerator{counter: counter}, nil
}

func (g *redisNumberGenerator) Next(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()
	key := g.counter.CounterKey(fmt.Sprintf("orders:%d", year))

	seq, err := g.counter.IncrWithTTL(ctx, key, 400*24*time.Hour)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "incrementing order counter")
	}
	return fmt.Sprintf("ORD-%d-%06d", year, seq), nil
}
