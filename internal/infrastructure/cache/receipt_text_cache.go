package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
)

const receiptTextNamespace = "receipt_text"

type redisReceiptTextCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisClient connects to a single redis node.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisReceiptTextCache caches rendered text in redis for ttl.
func NewRedisReceiptTextCache(client redis.UniversalClient, ttl time.Duration) domainRepo.ReceiptTextCache {
	return &redisReceiptTextCache{client: client, ttl: ttl}
}

func (c *redisReceiptTextCache) Get(ctx context.Context, publicID uuid.UUID, lineWidth int) (string, bool, error) {
	text, err := c.client.Get(ctx, ReceiptTextKey(publicID, lineWidth)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (c *redisReceiptTextCache) Set(ctx context.Context, publicID uuid.UUID, lineWidth int, text string) error {
	return c.client.Set(ctx, ReceiptTextKey(publicID, lineWidth), text, c.ttl).Err()
}

// ReceiptTextKey is the redis key of one rendered view.
func ReceiptTextKey(publicID uuid.UUID, lineWidth int) string {
	return receiptTextNamespace + ":" + publicID.String() + ":" + strconv.Itoa(lineWidth)
}

type noopReceiptTextCache struct{}

// NewNoopReceiptTextCache is used when redis is not configured.
func NewNoopReceiptTextCache() domainRepo.ReceiptTextCache {
	return noopReceiptTextCache{}
}

func (noopReceiptTextCache) Get(context.Context, uuid.UUID, int) (string, bool, error) {
	return "", false, nil
}

func (noopReceiptTextCache) Set(context.Context, uuid.UUID, int, string) error {
	return nil
}
