package main

import (
	"context"
	"fmt"
	"time"

	redisAdapter "github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/cache/redis"
	natsAdapter "github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/messaging/nats"
	mongoRepo "github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/usecase"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// app holds the infrastructure shared by every command.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.MetricsManager

	mongo  *mongo.Client
	db     *mongo.Database
	redis  *goredis.Client
	nats   *natsAdapter.Publisher
	events usecase.EventPublisher

	users   *mongoRepo.UserRepository
	books   *mongoRepo.BookRepository
	reviews *mongoRepo.ReviewRepository

	closers []func()
}

// bootstrap loads configuration and connects to MongoDB, Redis and, when
// configured, NATS. Repositories are created by openRepositories so that a
// caller may drop collections first.
func bootstrap(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	log := logger.New(logger.ConfigFromEnv())
	a := &app{log: log}
	a.closers = append(a.closers, func() { _ = log.Sync() })

	cfg, err := config.LoadConfig(log)
	if err != nil {
		return a, fmt.Errorf("load configuration: %w", err)
	}
	a.cfg = cfg
	a.metrics = metrics.NewMetricsManager(cfg.ServiceName)

	mc, err := mongoRepo.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return a, err
	}
	a.mongo = mc
	a.db = mc.Database(cfg.MongoDatabase)
	a.closers = append(a.closers, func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Disconnect(dctx); err != nil {
			log.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	})

	rc, err := redisAdapter.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		return a, err
	}
	a.redis = rc
	a.closers = append(a.closers, func() { _ = rc.Close() })

	if cfg.NATSURL == "" {
		log.Info("NATS_URL not set, domain events are discarded")
		a.events = usecase.NoopPublisher{}
	} else {
		pub, err := natsAdapter.NewPublisher(cfg.NATSURL, cfg.ServiceName, log)
		if err != nil {
			return a, err
		}
		a.nats = pub
		a.events = pub
		a.closers = append(a.closers, pub.Close)
	}
	return a, nil
}

func (a *app) openRepositories() error {
	var err error
	if a.users, err = mongoRepo.NewUserRepository(a.db, a.log); err != nil {
		return err
	}
	if a.books, err = mongoRepo.NewBookRepository(a.db, a.log); err != nil {
		return err
	}
	if a.reviews, err = mongoRepo.NewReviewRepository(a.db, a.log); err != nil {
		return err
	}
	return nil
}

// checks are the dependencies readiness depends on.
func (a *app) checks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"mongodb": func(ctx context.Context) error { return a.mongo.Ping(ctx, readpref.Primary()) },
		"redis":   func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
	}
	if a.nats != nil {
		checks["nats"] = a.nats.Check
	}
	return checks
}

func (a *app) usecases(storage usecase.CoverStorage) (*usecase.BookUsecase, *usecase.ReviewUsecase, *usecase.UserUsecase) {
	featured := redisAdapter.NewFeaturedCache(a.redis, a.cfg.FeaturedCacheTTL, a.log)
	aggregator := usecase.NewRatingAggregator(a.reviews, a.books, featured, a.events, a.metrics, a.log)
	books := usecase.NewBookUsecase(a.books, a.reviews, featured, storage, a.events, a.metrics, a.log)
	reviews := usecase.NewReviewUsecase(a.reviews, a.books, a.users, aggregator, a.events, a.metrics, a.log)
	users := usecase.NewUserUsecase(a.users, a.reviews, a.log)
	return books, reviews, users
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
