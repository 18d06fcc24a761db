package chatbot

import "context"

// Catalog provides read-only access to the store's products and categories.
// The inventory system owns the data; this service never mutates it.
type Catalog interface {
	// Products returns every product, including unavailable ones.
	Products(ctx context.Context) ([]Product, error)

	// AvailableProducts returns the products that can be sold.
	AvailableProducts(ctx context.Context) ([]Product, error)

	// Categories returns all categories.
	Categories(ctx context.Context) ([]Category, error)

	// ProductsByCategory returns the available products of a category,
	// sorted by name.
	ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error)

	// ProductsByCategoryName returns the available products whose category
	// name contains the given substring (case-insensitive), sorted by name.
	ProductsByCategoryName(ctx context.Context, name string) ([]Product, error)

	// ProductsWithinBudget returns the available products priced at or
	// below max, sorted by ascending price.
	ProductsWithinBudget(ctx context.Context, max float64) ([]Product, error)

	// ProductsByIDs resolves product identifiers to full records. Unknown
	// identifiers are skipped, not errors.
	ProductsByIDs(ctx context.Context, ids []int64) ([]Product, error)
}
