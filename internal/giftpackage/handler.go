package giftpackage

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/surprisewrap/service-shop-go/internal/giftpackage/entity"
	"github.com/surprisewrap/service-shop-go/internal/store"
)

// Handler exposes HTTP endpoints for gift package CRUD. All routes sit
// behind the auth middleware.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(st store.Store, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(st), logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var g entity.GiftPackage
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		h.logger.Debugw("invalid gift package payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.svc.Create(r.Context(), &g)
	if err != nil {
		h.logger.Errorw("create gift package failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create gift package failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Gift package created successfully",
		"id":      id,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	packages, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list gift packages failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list gift packages failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, packages)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Gift package not found"})
			return
		}
		h.logger.Errorw("get gift package failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get gift package failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	packages, err := h.svc.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.logger.Errorw("list user gift packages failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list gift packages failed"})
		return
	}
	if len(packages) == 0 {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "No gift packages found for this user"})
		return
	}
	h.writeJSON(w, http.StatusOK, packages)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.Debugw("invalid gift package payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.svc.Update(r.Context(), r.PathValue("id"), fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Gift package not found"})
			return
		}
		h.logger.Errorw("update gift package failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update gift package failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Gift package updated successfully"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Gift package not found"})
			return
		}
		h.logger.Errorw("delete gift package failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "delete gift package failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Gift package deleted successfully"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
