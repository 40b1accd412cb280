package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/surprisewrap/service-shop-go/internal/mailer"
	"github.com/surprisewrap/service-shop-go/internal/order/entity"
	"github.com/surprisewrap/service-shop-go/internal/store"
	"github.com/surprisewrap/service-shop-go/pkg/utilities"
)

const collection = "orders"

const mailTimeout = 10 * time.Second

// ErrNotFound is returned when no order matches the given id.
var ErrNotFound = errors.New("order not found")

// Service encapsulates order logic: CRUD over the document store plus
// best-effort customer notifications. A send failure never fails the request
// that triggered it.
type Service struct {
	store  store.Store
	mail   mailer.Mailer
	logger *zap.SugaredLogger
}

func NewService(st store.Store, ml mailer.Mailer, logger *zap.SugaredLogger) *Service {
	return &Service{store: st, mail: ml, logger: logger}
}

// Create stamps creation time and an order number, stores the order and
// notifies the customer. notifyEmail may be empty, which skips the mail.
func (s *Service) Create(ctx context.Context, o *entity.Order, notifyEmail string) (string, error) {
	o.CreatedAt = time.Now().UnixMilli()
	o.OrderNo = utilities.NewSnowflakeID()
	id, err := s.store.Insert(ctx, collection, o)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	s.notify(notifyEmail, "Order created",
		fmt.Sprintf("Your order is created and will be delivered to %s", o.DeliveryAddress))
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	docs, err := s.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return decodeOrders(docs)
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := s.store.GetByID(ctx, collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	var o entity.Order
	if err := json.Unmarshal(doc.Data, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	o.ID = doc.ID
	return &o, nil
}

// ListByUser returns all orders for the given user, oldest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	docs, err := s.store.QueryByField(ctx, collection, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return decodeOrders(docs)
}

// Update merges fields into the stored order. A status change to cancelled
// or delivered notifies the customer.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any, notifyEmail string) error {
	if err := s.store.Update(ctx, collection, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update order: %w", err)
	}
	switch fields["status"] {
	case entity.StatusCancelled:
		s.notify(notifyEmail, "Info about your order", "Your order is cancelled")
	case entity.StatusDelivered:
		s.notify(notifyEmail, "Info about your order", "Your order is delivered successfully")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// notify fires the mail in the background. The request context is not used:
// the response must not wait on the relay.
func (s *Service) notify(email, subject, text string) {
	if email == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mail.Send(ctx, mailer.Message{To: email, Subject: subject, Text: text}); err != nil {
			s.logger.Warnw("order notification failed", "to", email, "subject", subject, "err", err)
		}
	}()
}

func decodeOrders(docs []store.Document) ([]entity.Order, error) {
	out := make([]entity.Order, 0, len(docs))
	for _, d := range docs {
		var o entity.Order
		if err := json.Unmarshal(d.Data, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		o.ID = d.ID
		out = append(out, o)
	}
	return out, nil
}
