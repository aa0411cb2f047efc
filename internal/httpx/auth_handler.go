package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lojaflor/erp-api/internal/sellers"
)

type AuthHandler struct {
	Sellers  *sellers.Repo
	Sessions *sellers.Sessions
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token  string         `json:"token"`
	Seller sellers.Seller `json:"seller"`
}

// Register mounts login on the public router and logout on the
// authenticated one.
func (h *AuthHandler) Register(pub *chi.Mux, auth chi.Router) {
	pub.Post("/login", h.login)
	auth.Post("/logout", h.logout)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	seller, err := h.Sellers.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, sellers.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.Sessions.Issue(ctx, seller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loginResp{Token: token, Seller: seller})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if token := requestToken(r.Context()); token != "" {
		_ = h.Sessions.Revoke(r.Context(), token)
	}
	w.WriteHeader(http.StatusNoContent)
}
