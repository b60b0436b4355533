package usecase

import (
	"context"
	"io"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
)

// Event subjects published after successful mutations.
const (
	SubjectReviewCreated     = "review.created"
	SubjectReviewUpdated     = "review.updated"
	SubjectReviewDeleted     = "review.deleted"
	SubjectBookRatingUpdated = "book.rating.updated"
	SubjectBookCreated       = "book.created"
	SubjectBookDeleted       = "book.deleted"
	SubjectUserRegistered    = "user.registered"
)

// EventPublisher delivers domain events. Delivery is best effort: a failed
// publish never fails the request that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// NoopPublisher drops every event. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// FeaturedCache caches the featured-books listing.
type FeaturedCache interface {
	GetFeatured(ctx context.Context) ([]*domain.Book, bool, error)
	SetFeatured(ctx context.Context, books []*domain.Book) error
	InvalidateFeatured(ctx context.Context) error
}

// TokenRevoker remembers logged-out tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Issue(user *domain.User) (auth.IssuedToken, error)
	Parse(token string) (*auth.Claims, error)
}

// CoverStorage uploads book cover images and returns their URL.
type CoverStorage interface {
	Upload(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error)
}
