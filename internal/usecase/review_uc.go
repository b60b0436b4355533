package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReviewUsecase coordinates the review lifecycle: every check runs before
// the mutation, and the book's aggregate is recomputed after it, within the
// same call.
type ReviewUsecase struct {
	reviews    domain.ReviewRepository
	books      domain.BookRepository
	users      domain.UserRepository
	aggregator *RatingAggregator
	events     EventPublisher
	metrics    *metrics.MetricsManager
	logger     *logger.Logger
}

func NewReviewUsecase(
	reviews domain.ReviewRepository,
	books domain.BookRepository,
	users domain.UserRepository,
	aggregator *RatingAggregator,
	events EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:    reviews,
		books:      books,
		users:      users,
		aggregator: aggregator,
		events:     events,
		metrics:    m,
		logger:     log.Named("ReviewUsecase"),
	}
}

// Create adds the principal's review of a book.
func (uc *ReviewUsecase) Create(ctx context.Context, p domain.Principal, bookID primitive.ObjectID, rating int, content string) (*domain.ReviewWithAuthor, error) {
	log := uc.logger.With(zap.String("book_id", bookID.Hex()), zap.String("user_id", p.ID.Hex()))

	review, err := domain.NewReview(bookID, p.ID, rating, content)
	if err != nil {
		return nil, err
	}
	if _, err := uc.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	existing, err := uc.reviews.FindByBookAndUser(ctx, bookID, p.ID)
	switch {
	case err == nil && existing != nil:
		log.Info("Rejecting second review of the same book")
		return nil, domain.ErrAlreadyReviewed
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	if err := uc.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	if _, err := uc.aggregator.Recompute(ctx, bookID); err != nil {
		return nil, err
	}

	uc.metrics.ReviewsCreatedTotal.Inc()
	publish(ctx, uc.events, uc.metrics, uc.logger, SubjectReviewCreated, map[string]interface{}{
		"review_id":  review.ID.Hex(),
		"book_id":    bookID.Hex(),
		"user_id":    p.ID.Hex(),
		"rating":     review.Rating,
		"created_at": review.CreatedAt.Format(time.RFC3339Nano),
	})
	log.Info("Review created", zap.String("review_id", review.ID.Hex()), zap.Int("rating", review.Rating))

	return &domain.ReviewWithAuthor{Review: review, UserName: p.Name, UserAvatar: p.Avatar}, nil
}

// Get returns a review with its author's name.
func (uc *ReviewUsecase) Get(ctx context.Context, id primitive.ObjectID) (*domain.ReviewWithAuthor, error) {
	review, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	enriched, err := uc.withAuthors(ctx, []*domain.Review{review})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

// List returns a page of reviews, optionally of one book, newest first.
func (uc *ReviewUsecase) List(ctx context.Context, filter domain.ReviewFilter) ([]*domain.ReviewWithAuthor, domain.PageInfo, error) {
	reviews, total, err := uc.reviews.Find(ctx, filter)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	enriched, err := uc.withAuthors(ctx, reviews)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return enriched, domain.NewPageInfo(filter.Page, total), nil
}

// ListByUser returns a page of the principal's own reviews with book details.
func (uc *ReviewUsecase) ListByUser(ctx context.Context, p domain.Principal, page domain.Page) ([]*domain.ReviewWithBook, domain.PageInfo, error) {
	filter := domain.ReviewFilter{UserID: p.ID, Page: page}
	reviews, total, err := uc.reviews.Find(ctx, filter)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.BookID)
	}
	books, err := uc.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	byID := make(map[primitive.ObjectID]*domain.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	out := make([]*domain.ReviewWithBook, len(reviews))
	for i, r := range reviews {
		out[i] = &domain.ReviewWithBook{Review: r}
		if b, ok := byID[r.BookID]; ok {
			out[i].BookTitle = b.Title
			out[i].BookAuthor = b.Author
			out[i].BookCover = b.CoverImage
		}
	}
	return out, domain.NewPageInfo(page, total), nil
}

// Update changes rating and/or content of a review owned by the principal
// (or any review, for admins).
func (uc *ReviewUsecase) Update(ctx context.Context, id primitive.ObjectID, p domain.Principal, upd domain.ReviewUpdate) (*domain.ReviewWithAuthor, error) {
	log := uc.logger.With(zap.String("review_id", id.Hex()), zap.String("user_id", p.ID.Hex()))

	review, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeReviewMutation(review, p); err != nil {
		log.Warn("User not allowed to update review", zap.String("author_id", review.UserID.Hex()))
		return nil, err
	}
	changed, ratingChanged, err := review.Apply(upd)
	if err != nil {
		return nil, err
	}
	if !changed {
		log.Debug("Review update carried no changes")
		return uc.Get(ctx, id)
	}

	if err := uc.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	if ratingChanged {
		if _, err := uc.aggregator.Recompute(ctx, review.BookID); err != nil {
			return nil, err
		}
	}

	uc.metrics.ReviewUpdatesTotal.Inc()
	publish(ctx, uc.events, uc.metrics, uc.logger, SubjectReviewUpdated, map[string]interface{}{
		"review_id":  review.ID.Hex(),
		"book_id":    review.BookID.Hex(),
		"user_id":    review.UserID.Hex(),
		"rating":     review.Rating,
		"updated_at": review.UpdatedAt.Format(time.RFC3339Nano),
	})
	log.Info("Review updated", zap.Bool("rating_changed", ratingChanged))

	enriched, err := uc.withAuthors(ctx, []*domain.Review{review})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

// Delete removes a review owned by the principal (or any review, for admins).
func (uc *ReviewUsecase) Delete(ctx context.Context, id primitive.ObjectID, p domain.Principal) error {
	log := uc.logger.With(zap.String("review_id", id.Hex()), zap.String("user_id", p.ID.Hex()))

	review, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.AuthorizeReviewMutation(review, p); err != nil {
		log.Warn("User not allowed to delete review", zap.String("author_id", review.UserID.Hex()))
		return err
	}

	if err := uc.reviews.Delete(ctx, id); err != nil {
		return err
	}
	if _, err := uc.aggregator.Recompute(ctx, review.BookID); err != nil {
		return err
	}

	uc.metrics.ReviewDeletesTotal.Inc()
	publish(ctx, uc.events, uc.metrics, uc.logger, SubjectReviewDeleted, map[string]interface{}{
		"review_id": review.ID.Hex(),
		"book_id":   review.BookID.Hex(),
		"user_id":   review.UserID.Hex(),
	})
	log.Info("Review deleted")
	return nil
}

func (uc *ReviewUsecase) withAuthors(ctx context.Context, reviews []*domain.Review) ([]*domain.ReviewWithAuthor, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(reviews))
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.UserID]; !ok {
			seen[r.UserID] = struct{}{}
			ids = append(ids, r.UserID)
		}
	}
	users, err := uc.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]*domain.ReviewWithAuthor, len(reviews))
	for i, r := range reviews {
		out[i] = &domain.ReviewWithAuthor{Review: r}
		if u, ok := byID[r.UserID]; ok {
			out[i].UserName = u.Name
			out[i].UserAvatar = u.Avatar
		}
	}
	return out, nil
}
