package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const featuredCacheName = "featured_books"

// BookUsecase implements the catalogue operations.
type BookUsecase struct {
	books   domain.BookRepository
	reviews domain.ReviewRepository
	cache   FeaturedCache
	storage CoverStorage
	events  EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

// NewBookUsecase wires the catalogue. storage may be nil, in which case
// cover uploads report ErrStorageDisabled.
func NewBookUsecase(
	books domain.BookRepository,
	reviews domain.ReviewRepository,
	cache FeaturedCache,
	storage CoverStorage,
	events EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *BookUsecase {
	return &BookUsecase{
		books:   books,
		reviews: reviews,
		cache:   cache,
		storage: storage,
		events:  events,
		metrics: m,
		logger:  log.Named("BookUsecase"),
	}
}

func (uc *BookUsecase) Create(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	book := domain.NewBook(in)
	if err := uc.books.Create(ctx, book); err != nil {
		return nil, err
	}
	if book.Featured {
		uc.invalidateFeatured(ctx)
	}
	publish(ctx, uc.events, uc.metrics, uc.logger, SubjectBookCreated, map[string]interface{}{
		"book_id": book.ID.Hex(),
		"title":   book.Title,
	})
	return book, nil
}

// CreateMany inserts a batch of books at once.
func (uc *BookUsecase) CreateMany(ctx context.Context, inputs []domain.BookInput) ([]*domain.Book, error) {
	if len(inputs) == 0 {
		return nil, domain.Validation("Request body must be a non-empty array of books")
	}
	books := make([]*domain.Book, len(inputs))
	for i, in := range inputs {
		books[i] = domain.NewBook(in)
	}
	if err := uc.books.CreateMany(ctx, books); err != nil {
		return nil, err
	}
	uc.invalidateFeatured(ctx)
	uc.logger.Info("Books created in bulk", zap.Int("count", len(books)))
	return books, nil
}

func (uc *BookUsecase) Get(ctx context.Context, id primitive.ObjectID) (*domain.Book, error) {
	return uc.books.GetByID(ctx, id)
}

func (uc *BookUsecase) List(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, domain.PageInfo, error) {
	books, total, err := uc.books.Find(ctx, filter)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return books, domain.NewPageInfo(filter.Page, total), nil
}

// Featured returns the top rated featured books, served from cache when possible.
func (uc *BookUsecase) Featured(ctx context.Context) ([]*domain.Book, error) {
	cached, ok, err := uc.cache.GetFeatured(ctx)
	switch {
	case err != nil:
		uc.metrics.CacheRequestsTotal.WithLabelValues(featuredCacheName, "error").Inc()
		uc.logger.Warn("Featured cache unavailable", zap.Error(err))
	case ok:
		uc.metrics.CacheRequestsTotal.WithLabelValues(featuredCacheName, "hit").Inc()
		return cached, nil
	default:
		uc.metrics.CacheRequestsTotal.WithLabelValues(featuredCacheName, "miss").Inc()
	}

	books, err := uc.books.ListFeatured(ctx, domain.FeaturedLimit)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetFeatured(ctx, books); err != nil {
		uc.logger.Warn("Failed to fill featured cache", zap.Error(err))
	}
	return books, nil
}

func (uc *BookUsecase) Update(ctx context.Context, id primitive.ObjectID, upd domain.BookUpdate) (*domain.Book, error) {
	book, err := uc.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.Apply(upd) {
		return book, nil
	}
	if err := uc.books.Update(ctx, book); err != nil {
		return nil, err
	}
	uc.invalidateFeatured(ctx)
	uc.logger.Info("Book updated", zap.String("book_id", id.Hex()))
	return book, nil
}

// Delete removes a book together with all of its reviews.
func (uc *BookUsecase) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := uc.books.GetByID(ctx, id); err != nil {
		return err
	}
	// Reviews are removed before the book; on failure the book stays in place.
	removed, err := uc.reviews.DeleteByBookID(ctx, id)
	if err != nil {
		return domain.Internal(fmt.Errorf("delete reviews of book %s: %w", id.Hex(), err))
	}
	if err := uc.books.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateFeatured(ctx)
	publish(ctx, uc.events, uc.metrics, uc.logger, SubjectBookDeleted, map[string]interface{}{
		"book_id":         id.Hex(),
		"reviews_removed": removed,
	})
	uc.logger.Info("Book deleted", zap.String("book_id", id.Hex()), zap.Int64("reviews_removed", removed))
	return nil
}

// SetCover uploads a cover image and points the book at it.
func (uc *BookUsecase) SetCover(ctx context.Context, id primitive.ObjectID, fileName, contentType string, body io.Reader, size int64) (*domain.Book, error) {
	if uc.storage == nil {
		return nil, domain.ErrStorageDisabled
	}
	book, err := uc.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := uc.storage.Upload(ctx, fileName, contentType, body, size)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("upload cover: %w", err))
	}
	book.Apply(domain.BookUpdate{CoverImage: &url})
	if err := uc.books.Update(ctx, book); err != nil {
		return nil, err
	}
	if book.Featured {
		uc.invalidateFeatured(ctx)
	}
	return book, nil
}

func (uc *BookUsecase) invalidateFeatured(ctx context.Context) {
	if err := uc.cache.InvalidateFeatured(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate featured cache", zap.Error(err))
	}
}
