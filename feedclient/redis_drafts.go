package feedclient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisDrafts persists drafts in Redis so they survive the client process.
// Keys never expire: a draft is cleared only by a successful send.
type RedisDrafts struct {
	rdb *redis.Client
}

func NewRedisDrafts(rdb *redis.Client) *RedisDrafts {
	return &RedisDrafts{rdb: rdb}
}

func (d *RedisDrafts) Get(ctx context.Context, soldItemID, userID uuid.UUID) (string, error) {
	text, err := d.rdb.Get(ctx, draftKey(soldItemID, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (d *RedisDrafts) Set(ctx context.Context, soldItemID, userID uuid.UUID, text string) error {
	return d.rdb.Set(ctx, draftKey(soldItemID, userID), text, 0).Err()
}

func (d *RedisDrafts) Clear(ctx context.Context, soldItemID, userID uuid.UUID) error {
	return d.rdb.Del(ctx, draftKey(soldItemID, userID)).Err()
}
