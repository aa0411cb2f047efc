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

type SellersHandler struct {
	Repo *sellers.Repo
}

func (h *SellersHandler) Register(r chi.Router) {
	r.Get("/sellers", h.list)
	r.Post("/sellers", h.create)
	r.Put("/sellers/{id}", h.rename)
	r.Post("/sellers/{id}/deactivate", h.deactivate)
	r.Post("/sellers/{id}/activate", h.activate)
}

func (h *SellersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ss, err := h.Repo.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

type createSellerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SellersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSellerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Repo.Create(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

type renameSellerReq struct {
	Name string `json:"name"`
}

func (h *SellersHandler) rename(w http.ResponseWriter, r *http.Request) {
	var req renameSellerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Rename(ctx, chi.URLParam(r, "id"), req.Name)
	if errors.Is(err, sellers.ErrNotFound) {
		writeError(w, http.StatusNotFound, "seller not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SellersHandler) deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *SellersHandler) activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *SellersHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.SetActive(ctx, chi.URLParam(r, "id"), active)
	if errors.Is(err, sellers.ErrNotFound) {
		writeError(w, http.StatusNotFound, "seller not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
