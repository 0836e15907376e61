package handlers

import (
	"net/http"

	"nxq-backend/internal/middleware"
	"nxq-backend/internal/models"
	"nxq-backend/internal/services"
	"nxq-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.AuthService
}

func NewAuthHandler(s *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, resp)
}

// ValidateSession accepts the token as a bearer header or in the body as
// {"token": "..."}. An unusable token is a normal answer, not an error.
func (h *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		var body struct {
			Token string `json:"token"`
		}
		_ = decode(r, &body)
		token = body.Token
	}

	session, err := h.Service.ValidateSession(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.BearerToken(r); ok {
		if err := h.Service.Logout(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
	}
	utils.Success(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
