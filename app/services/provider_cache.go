package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/amirphl/Susanoo/config"
	"github.com/redis/go-redis/v9"
)

// CachedTrendsClient is a read-through cache over a TrendsClient.
// A nil redis client disables caching and delegates directly.
type CachedTrendsClient struct {
	inner TrendsClient
	rc    *redis.Client
	cfg   *config.CacheConfig
}

// NewCachedTrendsClient wraps the given client with a redis read-through cache
func NewCachedTrendsClient(inner TrendsClient, rc *redis.Client, cfg *config.CacheConfig) TrendsClient {
	if rc == nil || cfg == nil || !cfg.Enabled {
		return inner
	}
	return &CachedTrendsClient{inner: inner, rc: rc, cfg: cfg}
}

// FetchInterest serves per-keyword series from cache where possible and
// queries the provider only for the misses.
func (c *CachedTrendsClient) FetchInterest(ctx context.Context, keywords []string, locale string) (map[string]KeywordInterest, error) {
	result := make(map[string]KeywordInterest, len(keywords))
	var misses []string

	for _, kw := range keywords {
		key := c.cacheKey("trends", locale, kw)
		raw, err := c.rc.Get(ctx, key).Bytes()
		if err != nil {
			misses = append(misses, kw)
			continue
		}
		var interest KeywordInterest
		if err := json.Unmarshal(raw, &interest); err != nil {
			misses = append(misses, kw)
			continue
		}
		result[strings.ToLower(kw)] = interest
	}

	if len(misses) == 0 {
		return result, nil
	}

	fetched, err := c.inner.FetchInterest(ctx, misses, locale)
	if err != nil {
		return nil, err
	}

	for kw, interest := range fetched {
		result[kw] = interest
		raw, err := json.Marshal(interest)
		if err != nil {
			continue
		}
		if err := c.rc.Set(ctx, c.cacheKey("trends", locale, kw), raw, c.cfg.ProviderTTL).Err(); err != nil {
			log.Printf("failed to cache trend series for %q: %v", kw, err)
		}
	}

	return result, nil
}

func (c *CachedTrendsClient) cacheKey(provider, locale, keyword string) string {
	return fmt.Sprintf("%s%s:%s:%s", c.cfg.RedisPrefix, provider, locale, strings.ToLower(keyword))
}

// CachedSerpClient is a read-through cache over a SerpClient.
// A nil redis client disables caching and delegates directly.
type CachedSerpClient struct {
	inner SerpClient
	rc    *redis.Client
	cfg   *config.CacheConfig
}

// NewCachedSerpClient wraps the given client with a redis read-through cache
func NewCachedSerpClient(inner SerpClient, rc *redis.Client, cfg *config.CacheConfig) SerpClient {
	if rc == nil || cfg == nil || !cfg.Enabled {
		return inner
	}
	return &CachedSerpClient{inner: inner, rc: rc, cfg: cfg}
}

// Search serves the query from cache when present, querying the provider otherwise
func (c *CachedSerpClient) Search(ctx context.Context, query, locale string) (*SerpResponse, error) {
	key := fmt.Sprintf("%sserp:%s:%s", c.cfg.RedisPrefix, locale, strings.ToLower(query))

	if raw, err := c.rc.Get(ctx, key).Bytes(); err == nil {
		var resp SerpResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			return &resp, nil
		}
	}

	resp, err := c.inner.Search(ctx, query, locale)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(resp); err == nil {
		if err := c.rc.Set(ctx, key, raw, c.cfg.ProviderTTL).Err(); err != nil {
			log.Printf("failed to cache serp response for %q: %v", query, err)
		}
	}

	return resp, nil
}
