package domain

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeaturedLimit caps the featured listing.
const FeaturedLimit = 10

// Book is a catalogue entry. AverageRating and ReviewCount are derived from
// the book's reviews and only ever written by the rating aggregator.
type Book struct {
	ID              primitive.ObjectID
	Title           string
	Author          string
	Description     string
	CoverImage      string
	Genre           []string
	ISBN            string
	PublicationYear int
	Publisher       string
	AverageRating   float64
	ReviewCount     int
	Featured        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookInput holds the client-settable fields of a new book.
type BookInput struct {
	Title           string
	Author          string
	Description     string
	CoverImage      string
	Genre           []string
	ISBN            string
	PublicationYear int
	Publisher       string
	Featured        bool
}

func NewBook(in BookInput) *Book {
	now := time.Now().UTC()
	genre := in.Genre
	if genre == nil {
		genre = []string{}
	}
	return &Book{
		ID:              primitive.NewObjectID(),
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		Description:     in.Description,
		CoverImage:      in.CoverImage,
		Genre:           genre,
		ISBN:            in.ISBN,
		PublicationYear: in.PublicationYear,
		Publisher:       in.Publisher,
		Featured:        in.Featured,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// BookUpdate is a partial update; nil fields are left untouched.
type BookUpdate struct {
	Title           *string
	Author          *string
	Description     *string
	CoverImage      *string
	Genre           []string
	ISBN            *string
	PublicationYear *int
	Publisher       *string
	Featured        *bool
}

// Apply merges u into the book and reports whether anything changed.
func (b *Book) Apply(u BookUpdate) bool {
	changed := false
	setString := func(dst *string, v *string) {
		if v != nil && *v != *dst {
			*dst = *v
			changed = true
		}
	}
	setString(&b.Title, u.Title)
	setString(&b.Author, u.Author)
	setString(&b.Description, u.Description)
	setString(&b.CoverImage, u.CoverImage)
	setString(&b.ISBN, u.ISBN)
	setString(&b.Publisher, u.Publisher)
	if u.Genre != nil {
		b.Genre = u.Genre
		changed = true
	}
	if u.PublicationYear != nil && *u.PublicationYear != b.PublicationYear {
		b.PublicationYear = *u.PublicationYear
		changed = true
	}
	if u.Featured != nil && *u.Featured != b.Featured {
		b.Featured = *u.Featured
		changed = true
	}
	if changed {
		b.UpdatedAt = time.Now().UTC()
	}
	return changed
}

// BookFilter selects books by case-insensitive substring matches.
type BookFilter struct {
	Title  string
	Author string
	Genre  string
	Page   Page
}

// RatingSummary is the aggregate of a book's reviews.
type RatingSummary struct {
	Average float64
	Count   int
}

// RoundRating rounds a mean rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
