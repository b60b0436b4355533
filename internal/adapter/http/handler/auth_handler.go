package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
)

type AuthHandler struct {
	auth AuthService
	rs   *response.Responder
}

func NewAuthHandler(auth AuthService, rs *response.Responder) *AuthHandler {
	return &AuthHandler{auth: auth, rs: rs}
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    loginUserDTO `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if _, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, messageResponse{Success: true, Message: "User registered successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   token.Token,
		User: loginUserDTO{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
			Role:  string(user.Role),
		},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.auth.Logout(r.Context(), p); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}
