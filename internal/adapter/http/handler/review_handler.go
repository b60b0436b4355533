package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	reviews ReviewService
	rs      *response.Responder
}

func NewReviewHandler(reviews ReviewService, rs *response.Responder) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, rs: rs}
}

// List serves GET /reviews?bookId=... and GET /reviews/book/{bookId}.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ReviewFilter{Page: page(r)}

	if raw := chi.URLParam(r, "bookId"); raw != "" {
		id, err := domain.ParseID(raw, domain.ErrBookNotFound)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		filter.BookID = id
	} else if raw := queryParam(r, "bookId"); raw != "" {
		id, err := domain.ParseFilterID(raw)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		filter.BookID = id
	}

	reviews, info, err := h.reviews.List(r.Context(), filter)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.Page(w, newReviewDTOs(reviews), info)
}

// ListMine returns the caller's reviews with the reviewed book's details.
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	reviews, info, err := h.reviews.ListByUser(r.Context(), p, page(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.Page(w, newUserReviewDTOs(reviews), info)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrReviewNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	review, err := h.reviews.Get(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newReviewDTO(review))
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req createReviewRequest
	if err := decode(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	bookID, err := domain.ParseID(req.BookID, domain.ErrBookNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	review, err := h.reviews.Create(r.Context(), p, bookID, req.Rating, req.Content)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.Created(w, newReviewDTO(review))
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrReviewNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req updateReviewRequest
	if err := decode(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	review, err := h.reviews.Update(r.Context(), id, p, domain.ReviewUpdate{Rating: req.Rating, Content: req.Content})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newReviewDTO(review))
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrReviewNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.reviews.Delete(r.Context(), id, p); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, struct{}{})
}
