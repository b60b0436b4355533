package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory implementation of the three repositories.
type memStore struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]*domain.User
	books   map[primitive.ObjectID]*domain.Book
	reviews map[primitive.ObjectID]*domain.Review

	aggregateErr     error
	updateRatingErr  error
	deleteReviewsErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[primitive.ObjectID]*domain.User{},
		books:   map[primitive.ObjectID]*domain.Book{},
		reviews: map[primitive.ObjectID]*domain.Review{},
	}
}

type memUsers struct{ *memStore }
type memBooks struct{ *memStore }
type memReviews struct{ *memStore }

func (s *memStore) Users() domain.UserRepository     { return memUsers{s} }
func (s *memStore) Books() domain.BookRepository     { return memBooks{s} }
func (s *memStore) Reviews() domain.ReviewRepository { return memReviews{s} }

func copyUser(u *domain.User) *domain.User       { c := *u; return &c }
func copyBook(b *domain.Book) *domain.Book       { c := *b; return &c }
func copyReview(r *domain.Review) *domain.Review { c := *r; return &c }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == domain.NormalizeEmail(email) {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (r memUsers) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r memBooks) Create(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = copyBook(b)
	return nil
}

func (r memBooks) CreateMany(ctx context.Context, books []*domain.Book) error {
	for _, b := range books {
		if err := r.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (r memBooks) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return copyBook(b), nil
}

func (r memBooks) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Book
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, copyBook(b))
		}
	}
	return out, nil
}

func (r memBooks) Find(_ context.Context, f domain.BookFilter) ([]*domain.Book, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.Book
	for _, b := range r.books {
		all = append(all, copyBook(b))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageOf(all, f.Page), int64(len(all)), nil
}

func (r memBooks) ListFeatured(_ context.Context, limit int) ([]*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Book
	for _, b := range r.books {
		if b.Featured {
			out = append(out, copyBook(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memBooks) Update(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.books[b.ID]
	if !ok {
		return domain.ErrBookNotFound
	}
	c := copyBook(b)
	c.AverageRating, c.ReviewCount = stored.AverageRating, stored.ReviewCount
	r.books[b.ID] = c
	return nil
}

func (r memBooks) UpdateRating(_ context.Context, id primitive.ObjectID, s domain.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateRatingErr != nil {
		return r.updateRatingErr
	}
	b, ok := r.books[id]
	if !ok {
		return domain.ErrBookNotFound
	}
	b.AverageRating, b.ReviewCount = s.Average, s.Count
	return nil
}

func (r memBooks) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r memReviews) Create(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookID == rv.BookID && existing.UserID == rv.UserID {
			return domain.ErrAlreadyReviewed
		}
	}
	r.reviews[rv.ID] = copyReview(rv)
	return nil
}

func (r memReviews) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return copyReview(rv), nil
}

func (r memReviews) FindByBookAndUser(_ context.Context, bookID, userID primitive.ObjectID) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookID == bookID && rv.UserID == userID {
			return copyReview(rv), nil
		}
	}
	return nil, domain.ErrReviewNotFound
}

func (r memReviews) Find(_ context.Context, f domain.ReviewFilter) ([]*domain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.Review
	for _, rv := range r.reviews {
		if !f.BookID.IsZero() && rv.BookID != f.BookID {
			continue
		}
		if !f.UserID.IsZero() && rv.UserID != f.UserID {
			continue
		}
		all = append(all, copyReview(rv))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageOf(all, f.Page), int64(len(all)), nil
}

func (r memReviews) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memReviews) Update(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[rv.ID]; !ok {
		return domain.ErrReviewNotFound
	}
	r.reviews[rv.ID] = copyReview(rv)
	return nil
}

func (r memReviews) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r memReviews) DeleteByBookID(_ context.Context, bookID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteReviewsErr != nil {
		return 0, r.deleteReviewsErr
	}
	var n int64
	for id, rv := range r.reviews {
		if rv.BookID == bookID {
			delete(r.reviews, id)
			n++
		}
	}
	return n, nil
}

func (r memReviews) AggregateRating(_ context.Context, bookID primitive.ObjectID) (domain.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aggregateErr != nil {
		return domain.RatingSummary{}, r.aggregateErr
	}
	var sum, n int
	for _, rv := range r.reviews {
		if rv.BookID == bookID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.RatingSummary{Average: float64(sum) / float64(n), Count: n}, nil
}

func pageOf[T any](items []T, p domain.Page) []T {
	start := int(p.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// memCache is an in-memory FeaturedCache.
type memCache struct {
	mu          sync.Mutex
	books       []*domain.Book
	set         bool
	invalidated int
}

func (c *memCache) GetFeatured(context.Context) ([]*domain.Book, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.books, c.set, nil
}

func (c *memCache) SetFeatured(_ context.Context, books []*domain.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books, c.set = books, true
	return nil
}

func (c *memCache) InvalidateFeatured(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books, c.set = nil, false
	c.invalidated++
	return nil
}

// MockPublisher records published subjects.
type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockTokenRevoker struct{ mock.Mock }

func (m *MockTokenRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

// fixture wires real usecases over the in-memory store.
type fixture struct {
	store   *memStore
	cache   *memCache
	metrics *metrics.MetricsManager
	reviews *ReviewUsecase
	books   *BookUsecase
	users   *UserUsecase
	agg     *RatingAggregator
}

func newFixture() *fixture {
	store := newMemStore()
	cache := &memCache{}
	m := metrics.NewMetricsManager("test")
	log := logger.NewNop()
	events := NoopPublisher{}

	agg := NewRatingAggregator(store.Reviews(), store.Books(), cache, events, m, log)
	return &fixture{
		store:   store,
		cache:   cache,
		metrics: m,
		agg:     agg,
		reviews: NewReviewUsecase(store.Reviews(), store.Books(), store.Users(), agg, events, m, log),
		books:   NewBookUsecase(store.Books(), store.Reviews(), cache, nil, events, m, log),
		users:   NewUserUsecase(store.Users(), store.Reviews(), log),
	}
}

func (f *fixture) addUser(name string, role domain.Role) domain.Principal {
	u := domain.NewUser(name, name+"@example.com", "hash")
	u.Role = role
	_ = f.store.Users().Create(context.Background(), u)
	return domain.Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (f *fixture) addBook(title string, featured bool) *domain.Book {
	b := domain.NewBook(domain.BookInput{Title: title, Author: "Author", Description: "Description", Genre: []string{"Fiction"}, Featured: featured})
	_ = f.store.Books().Create(context.Background(), b)
	return b
}

func (f *fixture) book(id primitive.ObjectID) *domain.Book {
	b, _ := f.store.Books().GetByID(context.Background(), id)
	return b
}
