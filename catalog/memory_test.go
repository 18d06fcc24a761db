package catalog

import (
	"context"
	"testing"

	chatbot "github.com/comerzia/chatbot"
)

func seededStore() *MemoryStore {
	return NewMemoryStore(
		[]chatbot.Product{
			{ID: 1, Name: "Teclado", Price: 300000, Stock: 10, CategoryID: 2, CategoryName: "Accesorios", Available: true},
			{ID: 2, Name: "Mouse", Price: 50000, Stock: 25, CategoryID: 2, CategoryName: "Accesorios", Available: true},
			{ID: 3, Name: "Laptop", Price: 150000, Stock: 3, CategoryID: 1, CategoryName: "Computadoras", Available: true},
			{ID: 4, Name: "Monitor Roto", Price: 10000, Stock: 1, CategoryID: 1, CategoryName: "Computadoras", Available: false},
		},
		[]chatbot.Category{
			{ID: 1, Name: "Computadoras"},
			{ID: 2, Name: "Accesorios"},
		},
	)
}

func TestMemoryStoreProductsByCategory(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	t.Run("filters by category and availability", func(t *testing.T) {
		products, err := store.ProductsByCategory(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 1 || products[0].Name != "Laptop" {
			t.Errorf("unexpected products: %v", products)
		}
	})

	t.Run("sorts by name", func(t *testing.T) {
		products, err := store.ProductsByCategory(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 || products[0].Name != "Mouse" || products[1].Name != "Teclado" {
			t.Errorf("expected name order, got: %v", products)
		}
	})

	t.Run("unknown category is empty, not an error", func(t *testing.T) {
		products, err := store.ProductsByCategory(ctx, 999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 0 {
			t.Errorf("expected no products, got: %v", products)
		}
	})
}

func TestMemoryStoreProductsByCategoryName(t *testing.T) {
	store := seededStore()

	products, err := store.ProductsByCategoryName(context.Background(), "ACCES")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected case-insensitive substring match, got: %v", products)
	}
}

func TestMemoryStoreProductsWithinBudget(t *testing.T) {
	store := seededStore()

	products, err := store.ProductsWithinBudget(context.Background(), 200000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Available products at or below the cap, cheapest first. The
	// unavailable Monitor Roto is excluded despite its price.
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Mouse" || products[1].Name != "Laptop" {
		t.Errorf("expected ascending price order, got: %v", products)
	}
}

func TestMemoryStoreProductsByIDs(t *testing.T) {
	store := seededStore()

	products, err := store.ProductsByIDs(context.Background(), []int64{3, 999, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown ids are skipped and request order is preserved.
	if len(products) != 2 || products[0].ID != 3 || products[1].ID != 2 {
		t.Errorf("unexpected resolution: %v", products)
	}
}

func TestMemoryStoreReplace(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	store.Replace(
		[]chatbot.Product{{ID: 10, Name: "Nuevo", Available: true}},
		[]chatbot.Category{{ID: 5, Name: "Otros"}},
	)

	products, err := store.Products(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Nuevo" {
		t.Errorf("expected replaced contents, got: %v", products)
	}

	categories, err := store.Categories(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Otros" {
		t.Errorf("expected replaced categories, got: %v", categories)
	}
}
