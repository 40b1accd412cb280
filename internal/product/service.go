package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/surprisewrap/service-shop-go/internal/product/entity"
	"github.com/surprisewrap/service-shop-go/internal/store"
)

const collection = "products"

// ErrNotFound is returned when no product matches the given id.
var ErrNotFound = errors.New("product not found")

// Service encapsulates catalog logic over the document store.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) Create(ctx context.Context, p *entity.Product) (string, error) {
	id, err := s.store.Insert(ctx, collection, p)
	if err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Product, error) {
	docs, err := s.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]entity.Product, 0, len(docs))
	for _, d := range docs {
		var p entity.Product
		if err := json.Unmarshal(d.Data, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		p.ID = d.ID
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := s.store.GetByID(ctx, collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	var p entity.Product
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	p.ID = doc.ID
	return &p, nil
}

// Update merges the given fields into the stored product.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.store.Update(ctx, collection, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
