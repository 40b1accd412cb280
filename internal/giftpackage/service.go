package giftpackage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/surprisewrap/service-shop-go/internal/giftpackage/entity"
	"github.com/surprisewrap/service-shop-go/internal/store"
)

const collection = "gift-packages"

// ErrNotFound is returned when no gift package matches the given id.
var ErrNotFound = errors.New("gift package not found")

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) Create(ctx context.Context, g *entity.GiftPackage) (string, error) {
	g.CreatedAt = time.Now().UnixMilli()
	id, err := s.store.Insert(ctx, collection, g)
	if err != nil {
		return "", fmt.Errorf("insert gift package: %w", err)
	}
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]entity.GiftPackage, error) {
	docs, err := s.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list gift packages: %w", err)
	}
	return decodePackages(docs)
}

func (s *Service) Get(ctx context.Context, id string) (*entity.GiftPackage, error) {
	doc, err := s.store.GetByID(ctx, collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get gift package: %w", err)
	}
	var g entity.GiftPackage
	if err := json.Unmarshal(doc.Data, &g); err != nil {
		return nil, fmt.Errorf("unmarshal gift package: %w", err)
	}
	g.ID = doc.ID
	return &g, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]entity.GiftPackage, error) {
	docs, err := s.store.QueryByField(ctx, collection, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("query gift packages: %w", err)
	}
	return decodePackages(docs)
}

func (s *Service) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.store.Update(ctx, collection, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update gift package: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete gift package: %w", err)
	}
	return nil
}

func decodePackages(docs []store.Document) ([]entity.GiftPackage, error) {
	out := make([]entity.GiftPackage, 0, len(docs))
	for _, d := range docs {
		var g entity.GiftPackage
		if err := json.Unmarshal(d.Data, &g); err != nil {
			return nil, fmt.Errorf("unmarshal gift package: %w", err)
		}
		g.ID = d.ID
		out = append(out, g)
	}
	return out, nil
}
