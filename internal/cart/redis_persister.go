package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/kantinapp/kantin-gateway/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// RedisPersister stores each slot as a JSON blob with a TTL.
type RedisPersister struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewRedisPersister(client *redisclient.Client, ttl time.Duration) (*RedisPersister, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisPersister{client: client, ttl: ttl}, nil
}

func (p *RedisPersister) Load(ctx context.Context, slot string) ([]Line, error) {
	payload, err := p.client.Get(ctx, p.client.CartSlotKey(slot))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart slot: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("decode cart slot: %w", err)
	}
	return lines, nil
}

func (p *RedisPersister) Save(ctx context.Context, slot string, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart slot: %w", err)
	}
	return p.client.Set(ctx, p.client.CartSlotKey(slot), string(payload), p.ttl)
}

func (p *RedisPersister) Clear(ctx context.Context, slot string) error {
	return p.client.Del(ctx, p.client.CartSlotKey(slot))
}
