package chatbot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
)

// stubCatalog is a hand-rolled in-memory Catalog for tests.
type stubCatalog struct {
	products   []Product
	categories []Category
	err        error
}

func (s *stubCatalog) Products(ctx context.Context) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]Product(nil), s.products...), nil
}

func (s *stubCatalog) AvailableProducts(ctx context.Context) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Product
	for _, p := range s.products {
		if p.Available {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalog) Categories(ctx context.Context) ([]Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]Category(nil), s.categories...), nil
}

func (s *stubCatalog) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Product
	for _, p := range s.products {
		if p.Available && p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubCatalog) ProductsByCategoryName(ctx context.Context, name string) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	needle := strings.ToLower(name)
	var out []Product
	for _, p := range s.products {
		if p.Available && strings.Contains(strings.ToLower(p.CategoryName), needle) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubCatalog) ProductsWithinBudget(ctx context.Context, max float64) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Product
	for _, p := range s.products {
		if p.Available && p.Price <= max {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (s *stubCatalog) ProductsByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Product
	for _, id := range ids {
		for _, p := range s.products {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{
		categories: []Category{
			{ID: 1, Name: "Computadoras", Description: "Equipos"},
			{ID: 2, Name: "Accesorios", Description: "Periféricos"},
		},
		products: []Product{
			{ID: 1, Name: "LaptopX", Price: 150000, Stock: 3, CategoryID: 1, CategoryName: "Computadoras", Description: "Notebook básica", Available: true},
			{ID: 2, Name: "Mouse Óptico", Price: 50000, Stock: 25, CategoryID: 2, CategoryName: "Accesorios", Description: "Mouse USB", Available: true},
			{ID: 3, Name: "Teclado Mecánico", Price: 300000, Stock: 10, CategoryID: 2, CategoryName: "Accesorios", Description: "Switches rojos", Available: true},
			{ID: 4, Name: "Monitor Usado", Price: 90000, Stock: 0, CategoryID: 1, CategoryName: "Computadoras", Description: "Sin garantía", Available: false},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFallbackCategoryRule(t *testing.T) {
	respond := NewFallbackResponder(testCatalog(), testLogger())
	ctx := context.Background()

	t.Run("lists products of a mentioned category", func(t *testing.T) {
		answer := respond(ctx, "¿Qué computadoras tienen?")

		if !strings.Contains(answer, "Productos en Computadoras") {
			t.Errorf("expected category header, got: %s", answer)
		}
		if !strings.Contains(answer, "**LaptopX** - $150000 (Stock: 3)") {
			t.Errorf("expected product line with price and stock, got: %s", answer)
		}
		if strings.Contains(answer, "Monitor Usado") {
			t.Errorf("unavailable product should not be listed, got: %s", answer)
		}
	})

	t.Run("matches singular category mention", func(t *testing.T) {
		answer := respond(ctx, "busco una computadora")

		if !strings.Contains(answer, "LaptopX") {
			t.Errorf("expected products of the category, got: %s", answer)
		}
	})

	t.Run("lists category names for a generic browsing question", func(t *testing.T) {
		answer := respond(ctx, "¿qué categorías manejan?")

		if !strings.Contains(answer, "Categorías disponibles") {
			t.Errorf("expected category menu, got: %s", answer)
		}
		for _, name := range []string{"Computadoras", "Accesorios"} {
			if !strings.Contains(answer, "• "+name) {
				t.Errorf("expected category %q in menu, got: %s", name, answer)
			}
		}
	})

	t.Run("reports empty categories", func(t *testing.T) {
		cat := testCatalog()
		cat.products = []Product{
			{ID: 9, Name: "Solo Accesorio", Price: 1000, Stock: 1, CategoryID: 2, CategoryName: "Accesorios", Available: true},
		}
		respond := NewFallbackResponder(cat, testLogger())

		answer := respond(ctx, "computadoras")
		if !strings.Contains(answer, "No hay productos disponibles en la categoría Computadoras") {
			t.Errorf("expected empty category message, got: %s", answer)
		}
	})
}

func TestFallbackBudgetRule(t *testing.T) {
	ctx := context.Background()

	t.Run("lists affordable products ascending by price", func(t *testing.T) {
		respond := NewFallbackResponder(testCatalog(), testLogger())

		answer := respond(ctx, "tengo un presupuesto de 200.000 gs")
		if !strings.Contains(answer, "Productos dentro de tu presupuesto de 200,000 GS") {
			t.Errorf("expected budget header, got: %s", answer)
		}

		mouse := strings.Index(answer, "Mouse Óptico")
		laptop := strings.Index(answer, "LaptopX")
		if mouse == -1 || laptop == -1 {
			t.Fatalf("expected both affordable products, got: %s", answer)
		}
		if mouse > laptop {
			t.Errorf("expected ascending price order (Mouse before LaptopX), got: %s", answer)
		}
		if strings.Contains(answer, "Teclado Mecánico") {
			t.Errorf("product above budget should not be listed, got: %s", answer)
		}
	})

	t.Run("names the cheapest product when nothing is affordable", func(t *testing.T) {
		cat := &stubCatalog{
			categories: []Category{{ID: 1, Name: "Computadoras"}},
			products: []Product{
				{ID: 1, Name: "Workstation", Price: 9000000, Stock: 2, CategoryID: 1, CategoryName: "Computadoras", Available: true},
				{ID: 2, Name: "Notebook Pro", Price: 5000000, Stock: 4, CategoryID: 1, CategoryName: "Computadoras", Available: true},
			},
		}
		respond := NewFallbackResponder(cat, testLogger())

		answer := respond(ctx, "cuánto dinero necesito")
		if !strings.Contains(answer, "No hay productos dentro de tu presupuesto") {
			t.Errorf("expected no-affordable message, got: %s", answer)
		}
		if !strings.Contains(answer, "**Notebook Pro**") {
			t.Errorf("expected cheapest product named, got: %s", answer)
		}
	})
}

func TestFallbackScriptedRules(t *testing.T) {
	respond := NewFallbackResponder(testCatalog(), testLogger())
	ctx := context.Background()

	t.Run("account questions get the password script", func(t *testing.T) {
		answer := respond(ctx, "Olvidé mi contraseña, ¿qué hago?")
		if answer != accountHelpScript {
			t.Errorf("expected account help script, got: %s", answer)
		}
	})

	t.Run("purchase questions get the checkout script", func(t *testing.T) {
		answer := respond(ctx, "¿Cómo hago un pedido?")
		if answer != purchaseHelpScript {
			t.Errorf("expected purchase help script, got: %s", answer)
		}
	})
}

func TestFallbackStockRule(t *testing.T) {
	respond := NewFallbackResponder(testCatalog(), testLogger())

	answer := respond(context.Background(), "¿qué productos tienen más stock?")
	if !strings.Contains(answer, "Productos con mayor stock") {
		t.Errorf("expected stock header, got: %s", answer)
	}

	// Top 3 by descending stock: Mouse (25), Teclado (10), LaptopX (3).
	mouse := strings.Index(answer, "Mouse Óptico")
	teclado := strings.Index(answer, "Teclado Mecánico")
	laptop := strings.Index(answer, "LaptopX")
	if mouse == -1 || teclado == -1 || laptop == -1 {
		t.Fatalf("expected three products, got: %s", answer)
	}
	if !(mouse < teclado && teclado < laptop) {
		t.Errorf("expected descending stock order, got: %s", answer)
	}
	if !strings.Contains(answer, "**Mouse Óptico** - 25 unidades") {
		t.Errorf("expected unit count per product, got: %s", answer)
	}
}

func TestFallbackRulePriority(t *testing.T) {
	respond := NewFallbackResponder(testCatalog(), testLogger())

	// Mentions both a category and the purchase keyword; the category rule
	// has higher priority.
	answer := respond(context.Background(), "quiero comprar computadoras")
	if !strings.Contains(answer, "Productos en Computadoras") {
		t.Errorf("expected category rule to win, got: %s", answer)
	}
}

func TestFallbackGreeting(t *testing.T) {
	ctx := context.Background()

	t.Run("unmatched questions get the store overview", func(t *testing.T) {
		respond := NewFallbackResponder(testCatalog(), testLogger())

		answer := respond(ctx, "hola")
		if !strings.Contains(answer, "4 productos disponibles") {
			t.Errorf("expected product count, got: %s", answer)
		}
		if !strings.Contains(answer, "2 categorías") {
			t.Errorf("expected category count, got: %s", answer)
		}
		if !strings.Contains(answer, "Puedo ayudarte con") {
			t.Errorf("expected capability menu, got: %s", answer)
		}
	})

	t.Run("never returns an empty answer", func(t *testing.T) {
		respond := NewFallbackResponder(testCatalog(), testLogger())

		for _, message := range []string{"", "   ", "xyzzy", "what do you sell?"} {
			if answer := respond(ctx, message); answer == "" {
				t.Errorf("empty answer for message %q", message)
			}
		}
	})

	t.Run("degrades to the static greeting on catalog faults", func(t *testing.T) {
		cat := testCatalog()
		cat.err = errors.New("database down")
		respond := NewFallbackResponder(cat, testLogger())

		if answer := respond(ctx, "hola"); answer != staticGreeting {
			t.Errorf("expected static greeting, got: %s", answer)
		}
		if answer := respond(ctx, "cuánto stock tienen"); answer != staticGreeting {
			t.Errorf("expected static greeting for failed rule, got: %s", answer)
		}
	})
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{150000, "150000"},
		{1999.5, "1999.5"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := formatPrice(tc.price); got != tc.want {
			t.Errorf("formatPrice(%v) = %q, want %q", tc.price, got, tc.want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{200000, "200,000"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tc := range cases {
		if got := groupThousands(tc.n); got != tc.want {
			t.Errorf("groupThousands(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
