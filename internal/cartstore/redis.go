package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

// Redis keeps the cart slot in a shared Redis key, so every device of the
// same customer sees the same cart. No TTL: the cart survives sessions and
// is only emptied by Clear.
type Redis struct {
	client *redis.Client
	owner  string
}

func NewRedis(client *redis.Client, owner string) *Redis {
	return &Redis{client: client, owner: owner}
}

func (r *Redis) Load(ctx context.Context) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, cartKey(r.owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		// Corrupt slot degrades to an empty cart.
		return nil, nil
	}
	return lines, nil
}

func (r *Redis) Save(ctx context.Context, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(r.owner), string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, cartKey(r.owner)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(owner string) string {
	return fmt.Sprintf("cart:%s", owner)
}
