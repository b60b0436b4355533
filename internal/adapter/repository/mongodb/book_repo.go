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

type bookDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	Title           string             `bson:"title"`
	Author          string             `bson:"author"`
	Description     string             `bson:"description"`
	CoverImage      string             `bson:"coverImage"`
	Genre           []string           `bson:"genre"`
	ISBN            string             `bson:"isbn,omitempty"`
	PublicationYear int                `bson:"publicationYear,omitempty"`
	Publisher       string             `bson:"publisher,omitempty"`
	AverageRating   float64            `bson:"averageRating"`
	ReviewCount     int                `bson:"reviewCount"`
	Featured        bool               `bson:"featured"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func fromDomainBook(b *domain.Book) *bookDocument {
	return &bookDocument{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CoverImage:      b.CoverImage,
		Genre:           nonNil(b.Genre),
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		Publisher:       b.Publisher,
		AverageRating:   b.AverageRating,
		ReviewCount:     b.ReviewCount,
		Featured:        b.Featured,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (d *bookDocument) toDomain() *domain.Book {
	return &domain.Book{
		ID:              d.ID,
		Title:           d.Title,
		Author:          d.Author,
		Description:     d.Description,
		CoverImage:      d.CoverImage,
		Genre:           nonNil(d.Genre),
		ISBN:            d.ISBN,
		PublicationYear: d.PublicationYear,
		Publisher:       d.Publisher,
		AverageRating:   d.AverageRating,
		ReviewCount:     d.ReviewCount,
		Featured:        d.Featured,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// BookRepository implements domain.BookRepository on MongoDB.
type BookRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewBookRepository(db *mongo.Database, log *logger.Logger) (*BookRepository, error) {
	log = log.Named("BookRepository")
	coll := db.Collection(bookCollectionName)
	err := ensureIndexes(coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "averageRating", Value: -1}}},
		{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: options.Index().SetSparse(true)},
	}, log)
	if err != nil {
		return nil, err
	}
	return &BookRepository{collection: coll, logger: log}, nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, fromDomainBook(book)); err != nil {
		r.logger.Error("Failed to insert book", zap.Error(err))
		return fmt.Errorf("db insert book: %w", err)
	}
	r.logger.Info("Book created", zap.String("book_id", book.ID.Hex()), zap.String("title", book.Title))
	return nil
}

// CreateMany inserts all books in one ordered batch.
func (r *BookRepository) CreateMany(ctx context.Context, books []*domain.Book) error {
	docs := make([]interface{}, len(books))
	for i, b := range books {
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		docs[i] = fromDomainBook(b)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		r.logger.Error("Failed to insert books", zap.Int("count", len(books)), zap.Error(err))
		return fmt.Errorf("db insert books: %w", err)
	}
	r.logger.Info("Books created", zap.Int("count", len(books)))
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Book, error) {
	var doc bookDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		r.logger.Error("Failed to get book", zap.String("book_id", id.Hex()), zap.Error(err))
		return nil, fmt.Errorf("db find book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Book, error) {
	if len(ids) == 0 {
		return []*domain.Book{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *BookRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Book, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to find books", zap.Error(err))
		return nil, fmt.Errorf("db find books: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db decode books: %w", err)
	}
	books := make([]*domain.Book, len(docs))
	for i, d := range docs {
		books[i] = d.toDomain()
	}
	return books, nil
}

func bookQuery(f domain.BookFilter) bson.M {
	q := bson.M{}
	if f.Title != "" {
		q["title"] = containsInsensitive(f.Title)
	}
	if f.Author != "" {
		q["author"] = containsInsensitive(f.Author)
	}
	if f.Genre != "" {
		q["genre"] = containsInsensitive(f.Genre)
	}
	return q
}

// Find returns one page of matching books, newest first, and the total match count.
func (r *BookRepository) Find(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, int64, error) {
	q := bookQuery(filter)
	books, err := r.find(ctx, q, findPage(filter.Page))
	if err != nil {
		return nil, 0, err
	}
	total, err := r.collection.CountDocuments(ctx, q)
	if err != nil {
		r.logger.Error("Failed to count books", zap.Error(err))
		return nil, 0, fmt.Errorf("db count books: %w", err)
	}
	return books, total, nil
}

func (r *BookRepository) ListFeatured(ctx context.Context, limit int) ([]*domain.Book, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"featured": true}, opts)
}

// Update writes the client-editable fields. Rating aggregates are left alone.
func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	doc := fromDomainBook(book)
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": book.ID}, bson.M{"$set": bson.M{
		"title":           doc.Title,
		"author":          doc.Author,
		"description":     doc.Description,
		"coverImage":      doc.CoverImage,
		"genre":           doc.Genre,
		"isbn":            doc.ISBN,
		"publicationYear": doc.PublicationYear,
		"publisher":       doc.Publisher,
		"featured":        doc.Featured,
		"updatedAt":       doc.UpdatedAt,
	}})
	if err != nil {
		r.logger.Error("Failed to update book", zap.String("book_id", book.ID.Hex()), zap.Error(err))
		return fmt.Errorf("db update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, summary domain.RatingSummary) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"averageRating": summary.Average,
		"reviewCount":   summary.Count,
	}})
	if err != nil {
		r.logger.Error("Failed to write book rating", zap.String("book_id", id.Hex()), zap.Error(err))
		return fmt.Errorf("db update book rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete book", zap.String("book_id", id.Hex()), zap.Error(err))
		return fmt.Errorf("db delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	r.logger.Info("Book deleted", zap.String("book_id", id.Hex()))
	return nil
}
