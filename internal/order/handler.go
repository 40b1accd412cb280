package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/surprisewrap/service-shop-go/internal/auth"
	"github.com/surprisewrap/service-shop-go/internal/mailer"
	"github.com/surprisewrap/service-shop-go/internal/order/entity"
	"github.com/surprisewrap/service-shop-go/internal/store"
)

// Handler exposes HTTP endpoints for order CRUD. All routes sit behind the
// auth middleware.
type Handler struct {
	svc    *Service
	tokens *auth.TokenService
	logger *zap.SugaredLogger
}

func NewHandler(st store.Store, ml mailer.Mailer, tokens *auth.TokenService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(st, ml, logger), tokens: tokens, logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var o entity.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		h.logger.Debugw("invalid order payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.svc.Create(r.Context(), &o, h.notifyEmail(r))
	if err != nil {
		h.logger.Errorw("create order failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create order failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Order created successfully",
		"id":      id,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list orders failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list orders failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
			return
		}
		h.logger.Errorw("get order failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get order failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.logger.Errorw("list user orders failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list orders failed"})
		return
	}
	if len(orders) == 0 {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "No orders found for this user"})
		return
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.Debugw("invalid order payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.svc.Update(r.Context(), r.PathValue("id"), fields, h.notifyEmail(r)); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
			return
		}
		h.logger.Errorw("update order failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update order failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Order updated successfully"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
			return
		}
		h.logger.Errorw("delete order failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "delete order failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}

// notifyEmail reads the recipient out of the already-verified transport via
// unverified decode. Informational use only: the auth decision was made by
// the middleware, never by this value.
func (h *Handler) notifyEmail(r *http.Request) string {
	raw, ok := auth.BearerFromHeader(r.Header.Get("Authorization"))
	if !ok {
		return ""
	}
	uc, err := h.tokens.DecodeUnverified(raw)
	if err != nil {
		return ""
	}
	return uc.Email
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
