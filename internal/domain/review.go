package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinContentLength = 10
)

// Review is a user's rating and text for a book. A user has at most one
// review per book.
type Review struct {
	ID        primitive.ObjectID
	BookID    primitive.ObjectID
	UserID    primitive.ObjectID
	Rating    int
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateRating checks the 1..5 range.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return Validation(fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating))
	}
	return nil
}

// NormalizeContent trims the review text and enforces its minimum length.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if len([]rune(content)) < MinContentLength {
		return "", Validation(fmt.Sprintf("Review content must be at least %d characters", MinContentLength))
	}
	return content, nil
}

// NewReview creates a validated review of bookID by userID.
func NewReview(bookID, userID primitive.ObjectID, rating int, content string) (*Review, error) {
	if bookID.IsZero() || userID.IsZero() {
		return nil, Validation("Book and user are required")
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	content, err := NormalizeContent(content)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Review{
		ID:        primitive.NewObjectID(),
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ReviewUpdate is a partial update; nil fields are left untouched.
type ReviewUpdate struct {
	Rating  *int
	Content *string
}

// Apply validates and merges u. It reports whether anything changed and
// whether the rating did, which decides if aggregates need recomputing.
func (r *Review) Apply(u ReviewUpdate) (changed bool, ratingChanged bool, err error) {
	if u.Rating != nil {
		if err := ValidateRating(*u.Rating); err != nil {
			return false, false, err
		}
		if *u.Rating != r.Rating {
			r.Rating = *u.Rating
			changed, ratingChanged = true, true
		}
	}
	if u.Content != nil {
		content, err := NormalizeContent(*u.Content)
		if err != nil {
			return false, false, err
		}
		if content != r.Content {
			r.Content = content
			changed = true
		}
	}
	if changed {
		r.UpdatedAt = time.Now().UTC()
	}
	return changed, ratingChanged, nil
}

// AuthorizeReviewMutation allows the author of a review or an admin to
// change it. Everyone else gets ErrNotAuthorized.
func AuthorizeReviewMutation(r *Review, p Principal) error {
	if r.UserID == p.ID || p.IsAdmin() {
		return nil
	}
	return ErrNotAuthorized
}

// ReviewFilter selects reviews. Zero ids mean "any".
type ReviewFilter struct {
	BookID primitive.ObjectID
	UserID primitive.ObjectID
	Page   Page
}

// ReviewWithAuthor is a review enriched with its author's public data.
type ReviewWithAuthor struct {
	*Review
	UserName   string
	UserAvatar string
}

// ReviewWithBook is a review enriched with the reviewed book's data.
type ReviewWithBook struct {
	*Review
	BookTitle  string
	BookAuthor string
	BookCover  string
}
