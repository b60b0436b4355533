package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	users UserService
	rs    *response.Responder
}

func NewUserHandler(users UserService, rs *response.Responder) *UserHandler {
	return &UserHandler{users: users, rs: rs}
}

// GetProfile returns the caller's own profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	profile, err := h.users.Profile(r.Context(), p.ID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newProfileDTO(profile, false))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req updateProfileRequest
	if err := decode(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	profile, err := h.users.UpdateProfile(r.Context(), p.ID, req.toDomain())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newProfileDTO(profile, false))
}

// GetUser returns another user's public profile.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrUserNotFound)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	profile, err := h.users.Profile(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.OK(w, newProfileDTO(profile, true))
}
