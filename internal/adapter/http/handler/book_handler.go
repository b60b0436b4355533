package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/validation"
	"github.com/go-chi/chi/v5"
)

const maxCoverBytes = 5 << 20

type BookHandler struct {
	books BookService
	rs    *response.Responder
}

func NewBookHandler(books BookService, rs *response.Responder) *BookHandler {
	return &BookHandler{books: books, rs: rs}
}

type bulkResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Data    []bookDTO `json:"data"`
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.BookFilter{
		Title:  queryParam(r, "title"),
		Author: queryParam(r, "author"),
		Genre:  queryParam(r, "genre"),
		Page:   page(r),
	}
	books, info, err := h.books.List(r.Context(), filter)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.Page(w, newBookDTOs(books), info)
}

func (h *BookHandler) Featured(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.Featured(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newBookDTOs(books))
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrBookNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newBookDTO(book))
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decode(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	book, err := h.books.Create(r.Context(), req.toDomain())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.Created(w, newBookDTO(book))
}

// CreateMany inserts a JSON array of books in one request.
func (h *BookHandler) CreateMany(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var reqs []bookRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil || len(reqs) == 0 {
		h.rs.Error(w, r, domain.Validation("Request body must be a non-empty array of books"))
		return
	}
	inputs := make([]domain.BookInput, len(reqs))
	for i := range reqs {
		if err := validation.Struct(&reqs[i]); err != nil {
			h.rs.Error(w, r, err)
			return
		}
		inputs[i] = reqs[i].toDomain()
	}
	books, err := h.books.CreateMany(r.Context(), inputs)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, bulkResponse{Success: true, Count: len(books), Data: newBookDTOs(books)})
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrBookNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req bookUpdateRequest
	if err := decode(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	book, err := h.books.Update(r.Context(), id, req.toDomain())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newBookDTO(book))
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrBookNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.books.Delete(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, struct{}{})
}

// UploadCover accepts a multipart form with an image in the "cover" field.
func (h *BookHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrBookNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxCoverBytes+1024)
	if err := r.ParseMultipartForm(maxCoverBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rs.Error(w, r, domain.Validation("Cover image cannot be larger than 5MB").WithCause(err))
			return
		}
		h.rs.Error(w, r, domain.Validation("Expected a multipart form with a cover file").WithCause(err))
		return
	}
	file, header, err := r.FormFile("cover")
	if err != nil {
		h.rs.Error(w, r, domain.Validation("cover is required").WithCause(err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.rs.Error(w, r, domain.Validation("cover must be an image"))
		return
	}
	book, err := h.books.SetCover(r.Context(), id, header.Filename, contentType, file, header.Size)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newBookDTO(book))
}
