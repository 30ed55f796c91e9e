package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"walletengine/internal/models"

	"github.com/redis/go-redis/v9"
)

const balanceCacheTTL = 5 * time.Minute

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient builds a go-redis client from RedisConfig.
func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// BalanceCache is a read-through cache over Account balances, keyed by
// (userID, assetTypeID) the same way callers already address a
// balance — no extra lookup is needed to find the cache key. It is
// advisory: every debit/credit invalidates the entry, and a cache miss
// or cache failure always falls through to the Store.
type BalanceCache interface {
	GetAccount(ctx context.Context, userID, assetTypeID string) (*models.Account, error)
	SetAccount(ctx context.Context, a *models.Account) error
	Invalidate(ctx context.Context, userID, assetTypeID string) error
}

type redisBalanceCache struct {
	client *redis.Client
}

// NewRedisBalanceCache wraps a redis.Client as a BalanceCache.
func NewRedisBalanceCache(client *redis.Client) BalanceCache {
	return &redisBalanceCache{client: client}
}

func accountKey(userID, assetTypeID string) string {
	return "account:" + userID + ":" + assetTypeID
}

func (c *redisBalanceCache) GetAccount(ctx context.Context, userID, assetTypeID string) (*models.Account, error) {
	val, err := c.client.Get(ctx, accountKey(userID, assetTypeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var a models.Account
	if err := json.Unmarshal(val, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *redisBalanceCache) SetAccount(ctx context.Context, a *models.Account) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, accountKey(a.UserID, a.AssetTypeID), data, balanceCacheTTL).Err()
}

func (c *redisBalanceCache) Invalidate(ctx context.Context, userID, assetTypeID string) error {
	return c.client.Del(ctx, accountKey(userID, assetTypeID)).Err()
}

// NoopBalanceCache is a BalanceCache that always misses, for
// deployments without Redis configured.
type NoopBalanceCache struct{}

func (NoopBalanceCache) GetAccount(ctx context.Context, userID, assetTypeID string) (*models.Account, error) {
	return nil, ErrNotFound
}

func (NoopBalanceCache) SetAccount(ctx context.Context, a *models.Account) error { return nil }

func (NoopBalanceCache) Invalidate(ctx context.Context, userID, assetTypeID string) error {
	return nil
}
