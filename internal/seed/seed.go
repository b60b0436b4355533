// Package seed loads a small sample catalogue: three users, six books and
// seven reviews. Reviews go through the review lifecycle so book aggregates
// are computed exactly as in production.
package seed

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const DefaultPassword = "password123"

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
}

type BookCreator interface {
	CreateMany(ctx context.Context, in []domain.BookInput) ([]*domain.Book, error)
}

type ReviewCreator interface {
	Create(ctx context.Context, p domain.Principal, bookID primitive.ObjectID, rating int, content string) (*domain.ReviewWithAuthor, error)
}

type sampleUser struct {
	name   string
	email  string
	role   domain.Role
	bio    string
	genres []string
}

type sampleReview struct {
	book    int
	user    int
	rating  int
	content string
}

var users = []sampleUser{
	{"Admin User", "admin@example.com", domain.RoleAdmin, "I am the admin of this platform.", []string{"fiction", "mystery", "science-fiction"}},
	{"John Doe", "john@example.com", domain.RoleUser, "I love reading mystery novels.", []string{"mystery", "thriller"}},
	{"Jane Smith", "jane@example.com", domain.RoleUser, "Science fiction enthusiast.", []string{"science-fiction", "fantasy"}},
}

var books = []domain.BookInput{
	{
		Title:           "To Kill a Mockingbird",
		Author:          "Harper Lee",
		Description:     "To Kill a Mockingbird is a novel by Harper Lee published in 1960. It was immediately successful, winning the Pulitzer Prize, and has become a classic of modern American literature.",
		CoverImage:      "https://images.pexels.com/photos/4170629/pexels-photo-4170629.jpeg",
		Genre:           []string{"fiction", "classic"},
		ISBN:            "978-0061120084",
		PublicationYear: 1960,
		Publisher:       "HarperCollins",
		Featured:        true,
	},
	{
		Title:           "The Great Gatsby",
		Author:          "F. Scott Fitzgerald",
		Description:     "The Great Gatsby is a 1925 novel by American writer F. Scott Fitzgerald. Set in the Jazz Age on Long Island, the novel depicts narrator Nick Carraway's interactions with mysterious millionaire Jay Gatsby.",
		CoverImage:      "https://images.pexels.com/photos/1765033/pexels-photo-1765033.jpeg",
		Genre:           []string{"fiction", "classic"},
		ISBN:            "978-0743273565",
		PublicationYear: 1925,
		Publisher:       "Scribner",
		Featured:        true,
	},
	{
		Title:           "The Hunger Games",
		Author:          "Suzanne Collins",
		Description:     "The Hunger Games is a 2008 dystopian novel by the American writer Suzanne Collins. It is written in the voice of 16-year-old Katniss Everdeen, who lives in the post-apocalyptic nation of Panem.",
		CoverImage:      "https://images.pexels.com/photos/2363675/pexels-photo-2363675.jpeg",
		Genre:           []string{"fiction", "science-fiction", "young-adult"},
		ISBN:            "978-0439023481",
		PublicationYear: 2008,
		Publisher:       "Scholastic Press",
		Featured:        true,
	},
	{
		Title:           "The Hobbit",
		Author:          "J.R.R. Tolkien",
		Description:     "The Hobbit, or There and Back Again is a children's fantasy novel by English author J. R. R. Tolkien, published on 21 September 1937 to wide critical acclaim.",
		CoverImage:      "https://images.pexels.com/photos/8898018/pexels-photo-8898018.jpeg",
		Genre:           []string{"fiction", "fantasy"},
		ISBN:            "978-0547928227",
		PublicationYear: 1937,
		Publisher:       "Houghton Mifflin Harcourt",
	},
	{
		Title:           "Gone Girl",
		Author:          "Gillian Flynn",
		Description:     "Gone Girl is a thriller novel by the writer Gillian Flynn. It was published by Crown Publishing Group in June 2012 and soon made the New York Times Best Seller list.",
		CoverImage:      "https://images.pexels.com/photos/3747139/pexels-photo-3747139.jpeg",
		Genre:           []string{"fiction", "thriller", "mystery"},
		ISBN:            "978-0307588371",
		PublicationYear: 2012,
		Publisher:       "Crown Publishing Group",
	},
	{
		Title:           "Sapiens: A Brief History of Humankind",
		Author:          "Yuval Noah Harari",
		Description:     "Sapiens: A Brief History of Humankind is a book by Yuval Noah Harari, first published in Hebrew in Israel in 2011 and in English in 2014.",
		CoverImage:      "https://images.pexels.com/photos/5546921/pexels-photo-5546921.jpeg",
		Genre:           []string{"non-fiction", "history", "science"},
		ISBN:            "978-0062316097",
		PublicationYear: 2014,
		Publisher:       "Harper",
		Featured:        true,
	},
}

var reviews = []sampleReview{
	{0, 1, 5, "One of the best books I have ever read. A timeless classic that everyone should read at least once."},
	{0, 2, 4, "Powerful story with important themes that are still relevant today."},
	{1, 1, 4, "A beautifully written novel that captures the essence of the Roaring Twenties."},
	{2, 2, 5, "Absolutely gripping from start to finish. Could not put it down!"},
	{3, 1, 5, "A wonderful adventure story that sparked my love for fantasy literature."},
	{4, 2, 4, "Clever plot twists and complex characters. Kept me guessing until the end."},
	{5, 1, 5, "Fascinating perspective on human history. Made me rethink many of my assumptions."},
}

// Result counts what was created.
type Result struct {
	Users   int
	Books   int
	Reviews int
}

// Run inserts the sample data. The caller is responsible for emptying the
// collections first.
func Run(ctx context.Context, userStore UserStore, bookCreator BookCreator, reviewCreator ReviewCreator, log *logger.Logger) (Result, error) {
	var res Result

	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return res, err
	}
	principals := make([]domain.Principal, 0, len(users))
	for _, su := range users {
		u := domain.NewUser(su.name, su.email, hash)
		u.Role = su.role
		u.Bio = su.bio
		u.FavoriteGenres = su.genres
		if err := userStore.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create user %s: %w", su.email, err)
		}
		principals = append(principals, domain.Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	res.Users = len(principals)
	log.Info("Users created", zap.Int("count", res.Users))

	created, err := bookCreator.CreateMany(ctx, books)
	if err != nil {
		return res, fmt.Errorf("create books: %w", err)
	}
	res.Books = len(created)
	log.Info("Books created", zap.Int("count", res.Books))

	for _, sr := range reviews {
		if _, err := reviewCreator.Create(ctx, principals[sr.user], created[sr.book].ID, sr.rating, sr.content); err != nil {
			return res, fmt.Errorf("create review of %q: %w", created[sr.book].Title, err)
		}
		res.Reviews++
	}
	log.Info("Reviews created", zap.Int("count", res.Reviews))
	return res, nil
}
