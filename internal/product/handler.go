package product

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/surprisewrap/service-shop-go/internal/product/entity"
	"github.com/surprisewrap/service-shop-go/internal/store"
)

// Handler exposes HTTP endpoints for catalog CRUD. All routes sit behind the
// auth middleware.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(st store.Store, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(st), logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p entity.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.logger.Debugw("invalid product payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.svc.Create(r.Context(), &p)
	if err != nil {
		h.logger.Errorw("create product failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create product failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Product created successfully",
		"id":      id,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list products failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list products failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
			return
		}
		h.logger.Errorw("get product failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get product failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.Debugw("invalid product payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.svc.Update(r.Context(), r.PathValue("id"), fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
			return
		}
		h.logger.Errorw("update product failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update product failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
			return
		}
		h.logger.Errorw("delete product failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "delete product failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
