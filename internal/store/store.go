package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Document is a single record in a named collection. Data holds the stored
// JSON body; the ID is assigned by the store on insert.
type Document struct {
	ID   string
	Data json.RawMessage
}

var (
	// ErrNotFound is returned when no document matches the given id.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when an insert or update violates a unique field.
	ErrConflict = errors.New("unique field conflict")
)

// Store is the document-store client all resource services depend on.
// Collections are created implicitly on first insert.
type Store interface {
	// Insert stores doc under a new store-assigned id and returns it.
	Insert(ctx context.Context, collection string, doc any) (string, error)
	// List returns every document in the collection in insertion order.
	List(ctx context.Context, collection string) ([]Document, error)
	// QueryByField returns documents whose top-level field equals value.
	QueryByField(ctx context.Context, collection, field, value string) ([]Document, error)
	// GetByID returns the document with the given id or ErrNotFound.
	GetByID(ctx context.Context, collection, id string) (Document, error)
	// Update merges fields into the stored document. Fields absent from the
	// map are left untouched. Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
}
