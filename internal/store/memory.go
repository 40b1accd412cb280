package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/surprisewrap/service-shop-go/pkg/utilities"
)

// Memory is an in-process Store used by tests and local runs without a
// database. Documents are kept in insertion order per collection, matching
// the Postgres implementation's ordering.
type Memory struct {
	mu      sync.RWMutex
	data    map[string]map[string]json.RawMessage
	order   map[string][]string
	uniques map[string][]string
}

func NewMemory() *Memory {
	return &Memory{
		data:    map[string]map[string]json.RawMessage{},
		order:   map[string][]string{},
		uniques: map[string][]string{},
	}
}

// UniqueField declares field unique within collection, mirroring the
// partial unique index the Postgres schema carries.
func (m *Memory) UniqueField(collection, field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uniques[collection] = append(m.uniques[collection], field)
}

func (m *Memory) Insert(ctx context.Context, collection string, doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUniques(collection, raw, ""); err != nil {
		return "", err
	}
	id := utilities.NewKSUID()
	if m.data[collection] == nil {
		m.data[collection] = map[string]json.RawMessage{}
	}
	m.data[collection][id] = raw
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Document
	for _, id := range m.order[collection] {
		if raw, ok := m.data[collection][id]; ok {
			out = append(out, Document{ID: id, Data: raw})
		}
	}
	return out, nil
}

func (m *Memory) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Document
	for _, id := range m.order[collection] {
		raw, ok := m.data[collection][id]
		if ok && fieldValue(raw, field) == value {
			out = append(out, Document{ID: id, Data: raw})
		}
	}
	return out, nil
}

func (m *Memory) GetByID(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: raw}, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := m.checkUniques(collection, merged, id); err != nil {
		return err
	}
	m.data[collection][id] = merged
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.data[collection], id)
	ids := m.order[collection]
	for i, v := range ids {
		if v == id {
			m.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// checkUniques assumes the write lock is held. skipID exempts the document
// being updated from matching itself.
func (m *Memory) checkUniques(collection string, raw json.RawMessage, skipID string) error {
	for _, field := range m.uniques[collection] {
		v := fieldValue(raw, field)
		if v == "" {
			continue
		}
		for id, existing := range m.data[collection] {
			if id == skipID {
				continue
			}
			if fieldValue(existing, field) == v {
				return ErrConflict
			}
		}
	}
	return nil
}

func fieldValue(raw json.RawMessage, field string) string {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	s, _ := doc[field].(string)
	return s
}
