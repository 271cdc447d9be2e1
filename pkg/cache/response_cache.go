package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "medical_response:"

// CachedResponse is the stored answer for a frequent question.
type CachedResponse struct {
	Answer       string   `json:"answer"`
	CitedSources []string `json:"cited_sources"`
}

// ResponseCache is a Redis-backed cache for accepted clinical answers.
// Rejected and degraded results are never cached; only clean accepts are
// worth replaying.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour // clinical answers stay fresh for an hour
	}
	return &ResponseCache{
		client: client,
		ttl:    ttl,
	}
}

// hashQuery generates the deterministic key for a question.
func hashQuery(question string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(question))))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get retrieves a cached response, returning (nil, nil) on miss. Transport
// errors also degrade to a miss: the cache is an optimization, never a
// dependency.
func (c *ResponseCache) Get(ctx context.Context, question string) (*CachedResponse, error) {
	raw, err := c.client.Get(ctx, hashQuery(question)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cached CachedResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// Set stores an accepted response.
func (c *ResponseCache) Set(ctx context.Context, question string, response *CachedResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, hashQuery(question), payload, c.ttl).Err()
}

// Invalidate drops cached responses, e.g. after a protocol update. An empty
// pattern flushes everything under the prefix.
func (c *ResponseCache) Invalidate(ctx context.Context, pattern string) (int64, error) {
	if pattern == "" {
		pattern = "*"
	}

	keys, err := c.client.Keys(ctx, keyPrefix+pattern).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return c.client.Del(ctx, keys...).Result()
}
