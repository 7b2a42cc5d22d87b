package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each cache as a redis hash of URL to JSON-encoded
// response, so several proxy replicas can share one dynamic cache
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, ttl: ttl}
}

// ConnectRedis opens a client for addr ("host:port" or a redis:// URL) and pings it
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	url := addr
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		url = "redis://" + addr
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *RedisStorage) namesKey() string {
	return s.prefix + ":caches"
}

func (s *RedisStorage) cacheKey(cacheName string) string {
	return s.prefix + ":cache:" + cacheName
}

func (s *RedisStorage) Get(ctx context.Context, cacheName, key string) (*CachedResponse, error) {
	data, err := s.client.HGet(ctx, s.cacheKey(cacheName), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry CachedResponse
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStorage) Put(ctx context.Context, cacheName, key string, entry *CachedResponse) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.cacheKey(cacheName), key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.cacheKey(cacheName), s.ttl)
	}
	pipe.SAdd(ctx, s.namesKey(), cacheName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *RedisStorage) CacheNames(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.namesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStorage) DeleteCache(ctx context.Context, cacheName string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.cacheKey(cacheName))
	pipe.SRem(ctx, s.namesKey(), cacheName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete cache %s: %w", cacheName, err)
	}
	return nil
}
