// Package catalog provides an in-memory implementation of the catalog
// accessor, used in tests and single-binary demos.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	chatbot "github.com/comerzia/chatbot"
)

// MemoryStore is an in-memory catalog.
type MemoryStore struct {
	mu         sync.RWMutex
	products   []chatbot.Product
	categories []chatbot.Category
}

// NewMemoryStore creates an in-memory catalog seeded with the given data.
func NewMemoryStore(products []chatbot.Product, categories []chatbot.Category) *MemoryStore {
	return &MemoryStore{
		products:   append([]chatbot.Product(nil), products...),
		categories: append([]chatbot.Category(nil), categories...),
	}
}

// Replace swaps the catalog contents. Used by inventory sync jobs.
func (s *MemoryStore) Replace(products []chatbot.Product, categories []chatbot.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append([]chatbot.Product(nil), products...)
	s.categories = append([]chatbot.Category(nil), categories...)
}

// Products returns every product.
func (s *MemoryStore) Products(ctx context.Context) ([]chatbot.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]chatbot.Product(nil), s.products...), nil
}

// AvailableProducts returns the products that can be sold.
func (s *MemoryStore) AvailableProducts(ctx context.Context) ([]chatbot.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(p chatbot.Product) bool { return p.Available }), nil
}

// Categories returns all categories.
func (s *MemoryStore) Categories(ctx context.Context) ([]chatbot.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]chatbot.Category(nil), s.categories...), nil
}

// ProductsByCategory returns the available products of a category, sorted by name.
func (s *MemoryStore) ProductsByCategory(ctx context.Context, categoryID int64) ([]chatbot.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.filter(func(p chatbot.Product) bool {
		return p.Available && p.CategoryID == categoryID
	})
	sortByName(out)
	return out, nil
}

// ProductsByCategoryName returns the available products whose category name
// contains the given substring, case-insensitively, sorted by name.
func (s *MemoryStore) ProductsByCategoryName(ctx context.Context, name string) ([]chatbot.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	out := s.filter(func(p chatbot.Product) bool {
		return p.Available && strings.Contains(strings.ToLower(p.CategoryName), needle)
	})
	sortByName(out)
	return out, nil
}

// ProductsWithinBudget returns the available products priced at or below max,
// sorted by ascending price.
func (s *MemoryStore) ProductsWithinBudget(ctx context.Context, max float64) ([]chatbot.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.filter(func(p chatbot.Product) bool {
		return p.Available && p.Price <= max
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

// ProductsByIDs resolves identifiers to products, skipping unknown ones.
func (s *MemoryStore) ProductsByIDs(ctx context.Context, ids []int64) ([]chatbot.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[int64]chatbot.Product, len(s.products))
	for _, p := range s.products {
		byID[p.ID] = p
	}

	var out []chatbot.Product
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) filter(keep func(chatbot.Product) bool) []chatbot.Product {
	var out []chatbot.Product
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func sortByName(products []chatbot.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
}
