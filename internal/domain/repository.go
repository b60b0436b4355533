package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository persists users. Lookups of missing users return ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*User, error)
	Update(ctx context.Context, user *User) error
}

// BookRepository persists books. Lookups of missing books return ErrBookNotFound.
type BookRepository interface {
	Create(ctx context.Context, book *Book) error
	CreateMany(ctx context.Context, books []*Book) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Book, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Book, error)
	Find(ctx context.Context, filter BookFilter) ([]*Book, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]*Book, error)
	Update(ctx context.Context, book *Book) error
	// UpdateRating writes the derived aggregate fields only.
	UpdateRating(ctx context.Context, id primitive.ObjectID, summary RatingSummary) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ReviewRepository persists reviews. Create returns ErrAlreadyReviewed when
// the (book, user) pair already has a review.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	FindByBookAndUser(ctx context.Context, bookID, userID primitive.ObjectID) (*Review, error)
	Find(ctx context.Context, filter ReviewFilter) ([]*Review, int64, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByBookID(ctx context.Context, bookID primitive.ObjectID) (int64, error)
	// AggregateRating returns the mean (unrounded) and count of ratings for a book.
	AggregateRating(ctx context.Context, bookID primitive.ObjectID) (RatingSummary, error)
}
