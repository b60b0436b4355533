package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const featuredBooksKey = "books:featured"

// FeaturedCache caches the featured-books listing as JSON.
type FeaturedCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewFeaturedCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *FeaturedCache {
	return &FeaturedCache{client: client, ttl: ttl, logger: log.Named("FeaturedCache")}
}

// GetFeatured returns the cached listing; ok is false on a miss.
func (c *FeaturedCache) GetFeatured(ctx context.Context) (books []*domain.Book, ok bool, err error) {
	raw, err := c.client.Get(ctx, featuredBooksKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get featured cache: %w", err)
	}
	if err := json.Unmarshal(raw, &books); err != nil {
		c.logger.Warn("Discarding undecodable featured cache entry", zap.Error(err))
		return nil, false, nil
	}
	return books, true, nil
}

func (c *FeaturedCache) SetFeatured(ctx context.Context, books []*domain.Book) error {
	raw, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode featured books: %w", err)
	}
	if err := c.client.Set(ctx, featuredBooksKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set featured cache: %w", err)
	}
	return nil
}

func (c *FeaturedCache) InvalidateFeatured(ctx context.Context) error {
	if err := c.client.Del(ctx, featuredBooksKey).Err(); err != nil {
		return fmt.Errorf("invalidate featured cache: %w", err)
	}
	return nil
}
