package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RatingAggregator keeps a book's averageRating and reviewCount equal to the
// aggregate of its current reviews.
type RatingAggregator struct {
	reviews domain.ReviewRepository
	books   domain.BookRepository
	cache   FeaturedCache
	events  EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewRatingAggregator(
	reviews domain.ReviewRepository,
	books domain.BookRepository,
	cache FeaturedCache,
	events EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *RatingAggregator {
	return &RatingAggregator{
		reviews: reviews,
		books:   books,
		cache:   cache,
		events:  events,
		metrics: m,
		logger:  log.Named("RatingAggregator"),
	}
}

// Recompute recalculates the book's aggregate from scratch and stores it,
// rounded to one decimal. It is idempotent. A book that no longer exists is
// not an error. Storage failures are returned as Internal.
func (a *RatingAggregator) Recompute(ctx context.Context, bookID primitive.ObjectID) (domain.RatingSummary, error) {
	summary, err := a.reviews.AggregateRating(ctx, bookID)
	if err != nil {
		a.metrics.RatingRecomputesTotal.WithLabelValues("error").Inc()
		a.logger.Error("Rating aggregation failed", zap.String("book_id", bookID.Hex()), zap.Error(err))
		return domain.RatingSummary{}, domain.Internal(fmt.Errorf("aggregate rating of book %s: %w", bookID.Hex(), err))
	}
	summary.Average = domain.RoundRating(summary.Average)

	if err := a.books.UpdateRating(ctx, bookID, summary); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.metrics.RatingRecomputesTotal.WithLabelValues("skipped").Inc()
			a.logger.Info("Book gone, rating not stored", zap.String("book_id", bookID.Hex()))
			return summary, nil
		}
		a.metrics.RatingRecomputesTotal.WithLabelValues("error").Inc()
		a.logger.Error("Storing book rating failed", zap.String("book_id", bookID.Hex()), zap.Error(err))
		return domain.RatingSummary{}, domain.Internal(fmt.Errorf("store rating of book %s: %w", bookID.Hex(), err))
	}
	a.metrics.RatingRecomputesTotal.WithLabelValues("ok").Inc()

	if err := a.cache.InvalidateFeatured(ctx); err != nil {
		a.logger.Warn("Failed to invalidate featured cache", zap.Error(err))
	}
	publish(ctx, a.events, a.metrics, a.logger, SubjectBookRatingUpdated, map[string]interface{}{
		"book_id":        bookID.Hex(),
		"average_rating": summary.Average,
		"review_count":   summary.Count,
	})

	a.logger.Debug("Rating recomputed",
		zap.String("book_id", bookID.Hex()),
		zap.Float64("average", summary.Average),
		zap.Int("count", summary.Count))
	return summary, nil
}

// publish sends an event and only logs and counts a failure.
func publish(ctx context.Context, events EventPublisher, m *metrics.MetricsManager, log *logger.Logger, subject string, data interface{}) {
	if err := events.Publish(ctx, subject, data); err != nil {
		m.EventPublishErrorsTotal.WithLabelValues(subject).Inc()
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
