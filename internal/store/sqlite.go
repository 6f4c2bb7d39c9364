package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/muurk/catalog/internal/productapi"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
`

// SQLiteStore persists products in a SQLite database.
// Prices are stored as decimal strings so no precision is lost.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: ":memory:" is per-connection, and SQLite serializes writers anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]productapi.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []productapi.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (productapi.Product, error) {
	var p productapi.Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price); err != nil {
		return productapi.Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return productapi.Product{}, fmt.Errorf("product %d has invalid price %q: %w", p.ID, price, err)
	}
	p.Price = d
	return p, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]productapi.Product, error) {
	return s.query(ctx, `SELECT id, name, description, price FROM products ORDER BY id`)
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (productapi.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, description, price FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return productapi.Product{}, ErrNotFound
	}
	if err != nil {
		return productapi.Product{}, fmt.Errorf("scanning product row: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) Search(ctx context.Context, name string) ([]productapi.Product, error) {
	// instr avoids LIKE wildcard escaping; lower() covers ASCII, like MemoryStore
	return s.query(ctx, `
		SELECT id, name, description, price FROM products
		WHERE instr(lower(name), lower(?)) > 0
		ORDER BY id`, name)
}

func (s *SQLiteStore) Create(ctx context.Context, draft productapi.Draft) (productapi.Product, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price) VALUES (?, ?, ?)`,
		draft.Name, draft.Description, draft.Price.String())
	if err != nil {
		return productapi.Product{}, fmt.Errorf("inserting product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return productapi.Product{}, fmt.Errorf("reading product id: %w", err)
	}
	return draft.WithID(id), nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, draft productapi.Draft) (productapi.Product, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ? WHERE id = ?`,
		draft.Name, draft.Description, draft.Price.String(), id)
	if err != nil {
		return productapi.Product{}, fmt.Errorf("updating product %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return productapi.Product{}, ErrNotFound
	}
	return draft.WithID(id), nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
