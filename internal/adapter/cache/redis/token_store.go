package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedTokenPrefix = "revoked_token:"

// TokenStore keeps revoked token ids until the tokens would have expired anyway.
type TokenStore struct {
	client *redis.Client
	logger *logger.Logger
}

func NewTokenStore(client *redis.Client, log *logger.Logger) *TokenStore {
	return &TokenStore{client: client, logger: log.Named("TokenStore")}
}

// Revoke marks jti as revoked until expiresAt. Already expired tokens are ignored.
func (s *TokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err(); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", jti), zap.Error(err))
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Debug("Token revoked", zap.String("jti", jti), zap.Duration("ttl", ttl))
	return nil
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
