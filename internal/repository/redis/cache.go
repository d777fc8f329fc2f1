package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/domain"
)

// Cache provides Redis caching functionality
type Cache struct {
	client *redis.Client
}

// Key prefixes for different cache types
const (
	PrefixPage      = "page:"
	PrefixProfile   = "profile:"
	PrefixAnalysis  = "analysis:"
	PrefixRateLimit = "ratelimit:"
)

// Default TTLs
const (
	DefaultTTL      = 15 * time.Minute
	PageTTL         = 1 * time.Hour
	ProfileTTL      = 24 * time.Hour
	RateLimitWindow = 1 * time.Minute
)

// New creates a new Redis cache client
func New(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Health checks Redis connectivity
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client for advanced operations
func (c *Cache) Client() *redis.Client {
	return c.client
}

// URLKey derives a fixed-length cache key from a URL
func URLKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Page caching methods

// GetPageHTML retrieves cached page HTML for a URL. A cache miss
// returns nil with no error.
func (c *Cache) GetPageHTML(ctx context.Context, url string) ([]byte, error) {
	data, err := c.client.Get(ctx, PrefixPage+URLKey(url)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// SetPageHTML caches page HTML for a URL
func (c *Cache) SetPageHTML(ctx context.Context, url string, html []byte) error {
	return c.client.Set(ctx, PrefixPage+URLKey(url), html, PageTTL).Err()
}

// InvalidatePage removes a cached page
func (c *Cache) InvalidatePage(ctx context.Context, url string) error {
	return c.client.Del(ctx, PrefixPage+URLKey(url)).Err()
}

// Profile caching methods

// GetProfile retrieves a cached brand profile for a URL
func (c *Cache) GetProfile(ctx context.Context, url string) (*domain.BrandProfile, error) {
	data, err := c.client.Get(ctx, PrefixProfile+URLKey(url)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var profile domain.BrandProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// SetProfile caches a brand profile keyed by its source URL
func (c *Cache) SetProfile(ctx context.Context, profile *domain.BrandProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, PrefixProfile+URLKey(profile.URL), data, ProfileTTL).Err()
}

// InvalidateProfile removes a cached profile
func (c *Cache) InvalidateProfile(ctx context.Context, url string) error {
	return c.client.Del(ctx, PrefixProfile+URLKey(url)).Err()
}

// Analysis status caching

// GetAnalysisStatus retrieves cached analysis status
func (c *Cache) GetAnalysisStatus(ctx context.Context, id uuid.UUID) (domain.AnalysisStatus, error) {
	key := PrefixAnalysis + id.String() + ":status"
	status, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}

	return domain.AnalysisStatus(status), nil
}

// SetAnalysisStatus caches analysis status
func (c *Cache) SetAnalysisStatus(ctx context.Context, id uuid.UUID, status domain.AnalysisStatus) error {
	key := PrefixAnalysis + id.String() + ":status"
	return c.client.Set(ctx, key, string(status), DefaultTTL).Err()
}

// Rate limiting

// CheckRateLimit checks and increments rate limit counter
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error) {
	fullKey := PrefixRateLimit + key

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, RateLimitWindow)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}

// GetRateLimitRemaining returns remaining rate limit
func (c *Cache) GetRateLimitRemaining(ctx context.Context, key string, limit int) (int, error) {
	fullKey := PrefixRateLimit + key
	count, err := c.client.Get(ctx, fullKey).Int()
	if err != nil {
		if err == redis.Nil {
			return limit, nil
		}
		return 0, err
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

// Generic caching methods

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Set stores a value in cache
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a value from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching a pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}

	return nil
}

// Pub/Sub for analysis progress updates

// Publish publishes a message to a channel
func (c *Cache) Publish(ctx context.Context, channel string, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, channel, data).Err()
}

// Subscribe subscribes to a channel
func (c *Cache) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return c.client.Subscribe(ctx, channel)
}
