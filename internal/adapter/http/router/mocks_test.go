package router

import (
	"context"
	"io"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (auth.IssuedToken, *domain.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(1).(*domain.User)
	return args.Get(0).(auth.IssuedToken), u, args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, p domain.Principal) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Principal), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Profile(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd domain.ProfileUpdate) (*domain.Profile, error) {
	args := m.Called(ctx, id, upd)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}

type MockBookService struct{ mock.Mock }

func (m *MockBookService) Create(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	args := m.Called(ctx, in)
	b, _ := args.Get(0).(*domain.Book)
	return b, args.Error(1)
}

func (m *MockBookService) CreateMany(ctx context.Context, in []domain.BookInput) ([]*domain.Book, error) {
	args := m.Called(ctx, in)
	b, _ := args.Get(0).([]*domain.Book)
	return b, args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Book)
	return b, args.Error(1)
}

func (m *MockBookService) List(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, domain.PageInfo, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]*domain.Book)
	return b, args.Get(1).(domain.PageInfo), args.Error(2)
}

func (m *MockBookService) Featured(ctx context.Context) ([]*domain.Book, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]*domain.Book)
	return b, args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id primitive.ObjectID, upd domain.BookUpdate) (*domain.Book, error) {
	args := m.Called(ctx, id, upd)
	b, _ := args.Get(0).(*domain.Book)
	return b, args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookService) SetCover(ctx context.Context, id primitive.ObjectID, fileName, contentType string, body io.Reader, size int64) (*domain.Book, error) {
	args := m.Called(ctx, id, fileName, contentType, body, size)
	b, _ := args.Get(0).(*domain.Book)
	return b, args.Error(1)
}

type MockReviewService struct{ mock.Mock }

func (m *MockReviewService) Create(ctx context.Context, p domain.Principal, bookID primitive.ObjectID, rating int, content string) (*domain.ReviewWithAuthor, error) {
	args := m.Called(ctx, p, bookID, rating, content)
	r, _ := args.Get(0).(*domain.ReviewWithAuthor)
	return r, args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, id primitive.ObjectID) (*domain.ReviewWithAuthor, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.ReviewWithAuthor)
	return r, args.Error(1)
}

func (m *MockReviewService) List(ctx context.Context, filter domain.ReviewFilter) ([]*domain.ReviewWithAuthor, domain.PageInfo, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).([]*domain.ReviewWithAuthor)
	return r, args.Get(1).(domain.PageInfo), args.Error(2)
}

func (m *MockReviewService) ListByUser(ctx context.Context, p domain.Principal, page domain.Page) ([]*domain.ReviewWithBook, domain.PageInfo, error) {
	args := m.Called(ctx, p, page)
	r, _ := args.Get(0).([]*domain.ReviewWithBook)
	return r, args.Get(1).(domain.PageInfo), args.Error(2)
}

func (m *MockReviewService) Update(ctx context.Context, id primitive.ObjectID, p domain.Principal, upd domain.ReviewUpdate) (*domain.ReviewWithAuthor, error) {
	args := m.Called(ctx, id, p, upd)
	r, _ := args.Get(0).(*domain.ReviewWithAuthor)
	return r, args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, id primitive.ObjectID, p domain.Principal) error {
	return m.Called(ctx, id, p).Error(0)
}
