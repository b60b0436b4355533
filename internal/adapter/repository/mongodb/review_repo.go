package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Book      primitive.ObjectID `bson:"book"`
	User      primitive.ObjectID `bson:"user"`
	Rating    int                `bson:"rating"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func fromDomainReview(r *domain.Review) *reviewDocument {
	return &reviewDocument{
		ID:        r.ID,
		Book:      r.BookID,
		User:      r.UserID,
		Rating:    r.Rating,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:        d.ID,
		BookID:    d.Book,
		UserID:    d.User,
		Rating:    d.Rating,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ReviewRepository implements domain.ReviewRepository on MongoDB. The unique
// (book, user) index is what finally rejects concurrent duplicate reviews.
type ReviewRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewReviewRepository(db *mongo.Database, log *logger.Logger) (*ReviewRepository, error) {
	log = log.Named("ReviewRepository")
	coll := db.Collection(reviewCollectionName)
	err := ensureIndexes(coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "book", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "book", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	}, log)
	if err != nil {
		return nil, err
	}
	return &ReviewRepository{collection: coll, logger: log}, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, fromDomainReview(review)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate review rejected by index",
				zap.String("book_id", review.BookID.Hex()),
				zap.String("user_id", review.UserID.Hex()))
			return domain.ErrAlreadyReviewed.WithCause(err)
		}
		r.logger.Error("Failed to insert review", zap.Error(err))
		return fmt.Errorf("db insert review: %w", err)
	}
	r.logger.Info("Review created", zap.String("review_id", review.ID.Hex()))
	return nil
}

func (r *ReviewRepository) findOne(ctx context.Context, filter bson.M) (*domain.Review, error) {
	var doc reviewDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		r.logger.Error("Failed to find review", zap.Error(err))
		return nil, fmt.Errorf("db find review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ReviewRepository) FindByBookAndUser(ctx context.Context, bookID, userID primitive.ObjectID) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{"book": bookID, "user": userID})
}

func reviewQuery(f domain.ReviewFilter) bson.M {
	q := bson.M{}
	if !f.BookID.IsZero() {
		q["book"] = f.BookID
	}
	if !f.UserID.IsZero() {
		q["user"] = f.UserID
	}
	return q
}

// Find returns one page of matching reviews, newest first, and the total match count.
func (r *ReviewRepository) Find(ctx context.Context, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	q := reviewQuery(filter)
	cursor, err := r.collection.Find(ctx, q, findPage(filter.Page))
	if err != nil {
		r.logger.Error("Failed to find reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("db find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db decode reviews: %w", err)
	}
	reviews := make([]*domain.Review, len(docs))
	for i, d := range docs {
		reviews[i] = d.toDomain()
	}

	total, err := r.collection.CountDocuments(ctx, q)
	if err != nil {
		r.logger.Error("Failed to count reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("db count reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *ReviewRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("db count user reviews: %w", err)
	}
	return n, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": review.ID}, bson.M{"$set": bson.M{
		"rating":    review.Rating,
		"content":   review.Content,
		"updatedAt": review.UpdatedAt,
	}})
	if err != nil {
		r.logger.Error("Failed to update review", zap.String("review_id", review.ID.Hex()), zap.Error(err))
		return fmt.Errorf("db update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete review", zap.String("review_id", id.Hex()), zap.Error(err))
		return fmt.Errorf("db delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) DeleteByBookID(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"book": bookID})
	if err != nil {
		r.logger.Error("Failed to delete book reviews", zap.String("book_id", bookID.Hex()), zap.Error(err))
		return 0, fmt.Errorf("db delete book reviews: %w", err)
	}
	return res.DeletedCount, nil
}

// AggregateRating computes the mean and count of a book's ratings in one
// $match/$group pass. A book without reviews yields the zero summary.
func (r *ReviewRepository) AggregateRating(ctx context.Context, bookID primitive.ObjectID) (domain.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "book", Value: bookID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$book"},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate rating", zap.String("book_id", bookID.Hex()), zap.Error(err))
		return domain.RatingSummary{}, fmt.Errorf("db aggregate rating: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		AverageRating float64 `bson:"averageRating"`
		Count         int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("db decode rating aggregate: %w", err)
	}
	if len(results) == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.RatingSummary{Average: results[0].AverageRating, Count: results[0].Count}, nil
}
