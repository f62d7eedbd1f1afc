package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openlumen/catalog/internal/pkg/logger"
	"github.com/openlumen/catalog/internal/utils"
)

// CountCache memoizes search totals in redis. Failures degrade to cache
// misses; the search path never depends on redis being up.
type CountCache struct {
	client *goredis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewCountCache(log *logger.Logger) (*CountCache, error) {
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	password := utils.GetEnv("REDIS_PASSWORD", "", log)
	db := utils.GetEnvAsInt("REDIS_DB", 0, log)
	ttl := utils.GetEnvAsInt("SEARCH_COUNT_TTL_SECONDS", 300, log)

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Info("connected to redis", "addr", addr)
	return &CountCache{client: client, ttl: time.Duration(ttl) * time.Second, log: log}, nil
}

func (c *CountCache) Get(ctx context.Context, key string) (int64, bool) {
	raw, err := c.client.Get(ctx, cacheKey(key)).Result()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("count cache get failed", "error", err)
		}
		return 0, false
	}
	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return total, true
}

func (c *CountCache) Set(ctx context.Context, key string, total int64) {
	if err := c.client.Set(ctx, cacheKey(key), strconv.FormatInt(total, 10), c.ttl).Err(); err != nil {
		c.log.Warn("count cache set failed", "error", err)
	}
}

func (c *CountCache) Close() error { return c.client.Close() }

func cacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "catalog:search:count:" + hex.EncodeToString(sum[:])
}
