// Package store holds the product collection served by the reference API.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/muurk/catalog/internal/productapi"
)

// ErrNotFound is returned for an unknown product id
var ErrNotFound = errors.New("product not found")

// Store persists products. Lists are ordered by id.
type Store interface {
	List(ctx context.Context) ([]productapi.Product, error)
	Get(ctx context.Context, id int64) (productapi.Product, error)
	// Search matches a case-insensitive substring of the name
	Search(ctx context.Context, name string) ([]productapi.Product, error)
	Create(ctx context.Context, draft productapi.Draft) (productapi.Product, error)
	Update(ctx context.Context, id int64, draft productapi.Draft) (productapi.Product, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Open returns the store for a DSN: "memory" (or "") for MemoryStore,
// anything else is a SQLite path (":memory:" included).
func Open(dsn string) (Store, error) {
	switch strings.TrimSpace(dsn) {
	case "", "memory":
		return NewMemoryStore(), nil
	default:
		return NewSQLiteStore(dsn)
	}
}

// DefaultSeed is the demo collection loaded by `catalog-server serve --seed`
func DefaultSeed() []productapi.Draft {
	return []productapi.Draft{
		{Name: "Coffee Mug", Description: "12oz ceramic mug", Price: decimal.RequireFromString("12.50")},
		{Name: "Desk Lamp", Description: "LED, warm white", Price: decimal.RequireFromString("34.99")},
		{Name: "Notebook", Description: "A5, dotted", Price: decimal.RequireFromString("6.25")},
		{Name: "Travel Mug", Price: decimal.RequireFromString("18.00")},
		{Name: "Standing Desk", Description: "Electric, 120x60cm", Price: decimal.RequireFromString("399.00")},
	}
}

// Seed creates drafts in s, skipping the step when s already has products
func Seed(ctx context.Context, s Store, drafts []productapi.Draft) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, d := range drafts {
		if _, err := s.Create(ctx, d); err != nil {
			return i, err
		}
	}
	return len(drafts), nil
}

func matchesName(name, term string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}
