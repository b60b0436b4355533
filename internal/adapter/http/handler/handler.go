// Package handler holds the HTTP handlers of the REST API. Handlers decode
// and validate requests, call a service and render the envelope.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxBodyBytes = 1 << 20

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (auth.IssuedToken, *domain.User, error)
	Logout(ctx context.Context, p domain.Principal) error
}

type UserService interface {
	Profile(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd domain.ProfileUpdate) (*domain.Profile, error)
}

type BookService interface {
	Create(ctx context.Context, in domain.BookInput) (*domain.Book, error)
	CreateMany(ctx context.Context, in []domain.BookInput) ([]*domain.Book, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Book, error)
	List(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, domain.PageInfo, error)
	Featured(ctx context.Context) ([]*domain.Book, error)
	Update(ctx context.Context, id primitive.ObjectID, upd domain.BookUpdate) (*domain.Book, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetCover(ctx context.Context, id primitive.ObjectID, fileName, contentType string, body io.Reader, size int64) (*domain.Book, error)
}

type ReviewService interface {
	Create(ctx context.Context, p domain.Principal, bookID primitive.ObjectID, rating int, content string) (*domain.ReviewWithAuthor, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.ReviewWithAuthor, error)
	List(ctx context.Context, filter domain.ReviewFilter) ([]*domain.ReviewWithAuthor, domain.PageInfo, error)
	ListByUser(ctx context.Context, p domain.Principal, page domain.Page) ([]*domain.ReviewWithBook, domain.PageInfo, error)
	Update(ctx context.Context, id primitive.ObjectID, p domain.Principal, upd domain.ReviewUpdate) (*domain.ReviewWithAuthor, error)
	Delete(ctx context.Context, id primitive.ObjectID, p domain.Principal) error
}

var errInvalidBody = domain.Validation("Invalid request body")

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errInvalidBody.WithCause(errors.New("empty body"))
		}
		return errInvalidBody.WithCause(err)
	}
	return validation.Struct(dst)
}

// principal returns the authenticated caller. Routes using it are always
// behind middleware.Authenticate.
func principal(r *http.Request) (domain.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return domain.Principal{}, domain.ErrTokenRequired
	}
	return p, nil
}

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

func page(r *http.Request) domain.Page {
	q := r.URL.Query()
	return domain.ParsePage(q.Get("page"), q.Get("limit"))
}
