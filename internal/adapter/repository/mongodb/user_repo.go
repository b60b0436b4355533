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

type userDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	Password       string             `bson:"password"`
	Role           string             `bson:"role"`
	Bio            string             `bson:"bio"`
	Avatar         string             `bson:"avatar"`
	FavoriteGenres []string           `bson:"favoriteGenres"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func fromDomainUser(u *domain.User) *userDocument {
	return &userDocument{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Password:       u.PasswordHash,
		Role:           string(u.Role),
		Bio:            u.Bio,
		Avatar:         u.Avatar,
		FavoriteGenres: nonNil(u.FavoriteGenres),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (d *userDocument) toDomain() *domain.User {
	role := domain.Role(d.Role)
	if !role.IsValid() {
		role = domain.RoleUser
	}
	return &domain.User{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.Password,
		Role:           role,
		Bio:            d.Bio,
		Avatar:         d.Avatar,
		FavoriteGenres: nonNil(d.FavoriteGenres),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// UserRepository implements domain.UserRepository on MongoDB.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) (*UserRepository, error) {
	log = log.Named("UserRepository")
	coll := db.Collection(userCollectionName)
	err := ensureIndexes(coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}, log)
	if err != nil {
		return nil, err
	}
	return &UserRepository{collection: coll, logger: log}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, fromDomainUser(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate email on user creation", zap.String("email", user.Email))
			return domain.ErrEmailTaken.WithCause(err)
		}
		r.logger.Error("Failed to insert user", zap.Error(err))
		return fmt.Errorf("db insert user: %w", err)
	}
	r.logger.Info("User created", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("db find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("db find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db decode users: %w", err)
	}
	users := make([]*domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toDomain()
	}
	return users, nil
}

// Update writes the profile fields. Email, password and role are immutable here.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":           user.Name,
		"bio":            user.Bio,
		"avatar":         user.Avatar,
		"favoriteGenres": nonNil(user.FavoriteGenres),
		"updatedAt":      user.UpdatedAt,
	}})
	if err != nil {
		r.logger.Error("Failed to update user", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return fmt.Errorf("db update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
