// Package postgres implements the catalog accessor against PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chatbot "github.com/comerzia/chatbot"
)

const productColumns = `p.id, p.name, p.price, p.stock, p.category_id, c.name, p.description, p.is_available, COALESCE(p.image_url, '')`

// Store reads products and categories from PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL catalog store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Products returns every product.
func (s *Store) Products(ctx context.Context) ([]chatbot.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.name
	`, productColumns)

	return s.queryProducts(ctx, query)
}

// AvailableProducts returns the products that can be sold.
func (s *Store) AvailableProducts(ctx context.Context) ([]chatbot.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_available
		ORDER BY p.name
	`, productColumns)

	return s.queryProducts(ctx, query)
}

// Categories returns all categories.
func (s *Store) Categories(ctx context.Context) ([]chatbot.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []chatbot.Category
	for rows.Next() {
		var c chatbot.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ProductsByCategory returns the available products of a category, sorted by name.
func (s *Store) ProductsByCategory(ctx context.Context, categoryID int64) ([]chatbot.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_available AND p.category_id = $1
		ORDER BY p.name
	`, productColumns)

	return s.queryProducts(ctx, query, categoryID)
}

// ProductsByCategoryName returns the available products whose category name
// contains the given substring, case-insensitively, sorted by name.
func (s *Store) ProductsByCategoryName(ctx context.Context, name string) ([]chatbot.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_available AND c.name ILIKE '%%' || $1 || '%%'
		ORDER BY p.name
	`, productColumns)

	return s.queryProducts(ctx, query, name)
}

// ProductsWithinBudget returns the available products priced at or below max,
// sorted by ascending price.
func (s *Store) ProductsWithinBudget(ctx context.Context, max float64) ([]chatbot.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_available AND p.price <= $1
		ORDER BY p.price
	`, productColumns)

	return s.queryProducts(ctx, query, max)
}

// ProductsByIDs resolves identifiers to products, skipping unknown ones.
func (s *Store) ProductsByIDs(ctx context.Context, ids []int64) ([]chatbot.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)
	`, productColumns)

	return s.queryProducts(ctx, query, ids)
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]chatbot.Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var out []chatbot.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (chatbot.Product, error) {
	var p chatbot.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Stock,
		&p.CategoryID,
		&p.CategoryName,
		&p.Description,
		&p.Available,
		&p.ImageURL,
	)
	if err != nil {
		return chatbot.Product{}, fmt.Errorf("scanning product: %w", err)
	}
	return p, nil
}
