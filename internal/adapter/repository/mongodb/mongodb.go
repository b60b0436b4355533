package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	userCollectionName   = "users"
	bookCollectionName   = "books"
	reviewCollectionName = "reviews"

	indexTimeout = 10 * time.Second
)

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, uri string, log *logger.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info("Connected to MongoDB")
	return client, nil
}

// DropCollections removes all application data. Repositories must be
// constructed afterwards so that their indexes are recreated.
func DropCollections(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{reviewCollectionName, bookCollectionName, userCollectionName} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

func ensureIndexes(coll *mongo.Collection, indexes []mongo.IndexModel, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes", zap.String("collection", coll.Name()), zap.Error(err))
		return fmt.Errorf("create indexes for %s: %w", coll.Name(), err)
	}
	log.Info("Ensured indexes", zap.String("collection", coll.Name()))
	return nil
}

// containsInsensitive matches values containing s, ignoring case. User input
// is escaped so it is never interpreted as a pattern.
func containsInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// findPage returns options for one page, newest first.
func findPage(p domain.Page) *options.FindOptions {
	return options.Find().
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
