package handler

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,trimmin=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name           *string  `json:"name" validate:"omitnil,trimmin=2,max=50"`
	Bio            *string  `json:"bio" validate:"omitnil,max=500"`
	Avatar         *string  `json:"avatar" validate:"omitnil,max=500"`
	FavoriteGenres []string `json:"favoriteGenres" validate:"omitempty,max=20,dive,required,max=50"`
}

func (req updateProfileRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:           req.Name,
		Bio:            req.Bio,
		Avatar:         req.Avatar,
		FavoriteGenres: req.FavoriteGenres,
	}
}

type bookRequest struct {
	Title           string   `json:"title" validate:"required,trimmin=1,max=100"`
	Author          string   `json:"author" validate:"required,trimmin=1,max=100"`
	Description     string   `json:"description" validate:"required"`
	CoverImage      string   `json:"coverImage" validate:"omitempty,max=500"`
	Genre           []string `json:"genre" validate:"required,min=1,dive,required"`
	ISBN            string   `json:"isbn" validate:"omitempty,max=20"`
	PublicationYear int      `json:"publicationYear" validate:"omitempty,min=1000,notfutureyear"`
	Publisher       string   `json:"publisher" validate:"omitempty,max=100"`
	Featured        bool     `json:"featured"`
}

func (req bookRequest) toDomain() domain.BookInput {
	return domain.BookInput{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		CoverImage:      req.CoverImage,
		Genre:           req.Genre,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		Featured:        req.Featured,
	}
}

type bookUpdateRequest struct {
	Title           *string  `json:"title" validate:"omitnil,trimmin=1,max=100"`
	Author          *string  `json:"author" validate:"omitnil,trimmin=1,max=100"`
	Description     *string  `json:"description" validate:"omitnil,min=1"`
	CoverImage      *string  `json:"coverImage" validate:"omitnil,max=500"`
	Genre           []string `json:"genre" validate:"omitnil,min=1,dive,required"`
	ISBN            *string  `json:"isbn" validate:"omitnil,max=20"`
	PublicationYear *int     `json:"publicationYear" validate:"omitnil,min=1000,notfutureyear"`
	Publisher       *string  `json:"publisher" validate:"omitnil,max=100"`
	Featured        *bool    `json:"featured"`
}

func (req bookUpdateRequest) toDomain() domain.BookUpdate {
	return domain.BookUpdate{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		CoverImage:      req.CoverImage,
		Genre:           req.Genre,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		Featured:        req.Featured,
	}
}

type createReviewRequest struct {
	BookID  string `json:"bookId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required,trimmin=10"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	Content *string `json:"content" validate:"omitnil,trimmin=10"`
}

type userDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Role           string    `json:"role,omitempty"`
	Bio            string    `json:"bio"`
	Avatar         string    `json:"avatar"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	ReviewCount    *int64    `json:"reviewCount,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// newUserDTO renders a user. Public profiles hide email and role.
func newUserDTO(u *domain.User, public bool) userDTO {
	dto := userDTO{
		ID:             u.ID.Hex(),
		Name:           u.Name,
		Bio:            u.Bio,
		Avatar:         u.Avatar,
		FavoriteGenres: u.FavoriteGenres,
		CreatedAt:      u.CreatedAt,
	}
	if dto.FavoriteGenres == nil {
		dto.FavoriteGenres = []string{}
	}
	if !public {
		dto.Email = u.Email
		dto.Role = string(u.Role)
	}
	return dto
}

func newProfileDTO(p *domain.Profile, public bool) userDTO {
	dto := newUserDTO(p.User, public)
	n := p.ReviewCount
	dto.ReviewCount = &n
	return dto
}

type loginUserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type bookDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	CoverImage      string    `json:"coverImage"`
	Genre           []string  `json:"genre"`
	ISBN            string    `json:"isbn,omitempty"`
	PublicationYear int       `json:"publicationYear,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	AverageRating   float64   `json:"averageRating"`
	ReviewCount     int       `json:"reviewCount"`
	Featured        bool      `json:"featured"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newBookDTO(b *domain.Book) bookDTO {
	return bookDTO{
		ID:              b.ID.Hex(),
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CoverImage:      b.CoverImage,
		Genre:           b.Genre,
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

func newBookDTOs(books []*domain.Book) []bookDTO {
	out := make([]bookDTO, len(books))
	for i, b := range books {
		out[i] = newBookDTO(b)
	}
	return out
}

type reviewDTO struct {
	ID         string    `json:"id"`
	BookID     string    `json:"bookId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName,omitempty"`
	UserAvatar string    `json:"userAvatar,omitempty"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	BookTitle  string    `json:"bookTitle,omitempty"`
	BookAuthor string    `json:"bookAuthor,omitempty"`
	BookCover  string    `json:"bookCover,omitempty"`
}

func baseReviewDTO(r *domain.Review) reviewDTO {
	return reviewDTO{
		ID:        r.ID.Hex(),
		BookID:    r.BookID.Hex(),
		UserID:    r.UserID.Hex(),
		Rating:    r.Rating,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newReviewDTO(r *domain.ReviewWithAuthor) reviewDTO {
	dto := baseReviewDTO(r.Review)
	dto.UserName = r.UserName
	dto.UserAvatar = r.UserAvatar
	return dto
}

func newReviewDTOs(reviews []*domain.ReviewWithAuthor) []reviewDTO {
	out := make([]reviewDTO, len(reviews))
	for i, r := range reviews {
		out[i] = newReviewDTO(r)
	}
	return out
}

func newUserReviewDTOs(reviews []*domain.ReviewWithBook) []reviewDTO {
	out := make([]reviewDTO, len(reviews))
	for i, r := range reviews {
		dto := baseReviewDTO(r.Review)
		dto.BookTitle = r.BookTitle
		dto.BookAuthor = r.BookAuthor
		dto.BookCover = r.BookCover
		out[i] = dto
	}
	return out
}
