package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// DefaultBudget is the fixed budget threshold in guaraníes used by the
// budget rule.
const DefaultBudget = 200000

// staticGreeting is the degraded answer used when a rule hits an internal
// fault. The fallback engine never surfaces errors to the caller.
const staticGreeting = "¡Hola! Estoy aquí para ayudarte con información sobre nuestros productos, " +
	"stock, precios, proceso de compra y gestión de tu cuenta. ¿En qué puedo asistirte hoy?"

// Keyword sets for the rule table. Matching is case-insensitive substring
// containment over the whole message.
var (
	categoryKeywords = []string{"categoría", "categoria", "computadoras", "ropa", "música", "musica", "muebles", "accesorios"}
	budgetKeywords   = []string{"presupuesto", "gs", "guaraníes", "guaranies", "200.000", "200000", "dinero"}
	accountKeywords  = []string{"contraseña", "password", "cambiar contraseña", "olvidé contraseña", "olvide contraseña"}
	purchaseKeywords = []string{"comprar", "pedido", "carrito", "pago", "envío", "envio"}
	stockKeywords    = []string{"stock", "disponible", "cantidad", "unidades"}
)

const accountHelpScript = "🔐 **Para cambiar tu contraseña:**\n\n" +
	"1. Ve a 'Mi Cuenta' en el menú superior\n" +
	"2. Haz clic en 'Cambiar Contraseña'\n" +
	"3. Ingresa tu contraseña actual y la nueva\n" +
	"4. Confirma los cambios\n\n" +
	"Si olvidaste tu contraseña, haz clic en '¿Olvidaste tu contraseña?' en la página de login."

const purchaseHelpScript = "🛒 **Proceso de compra:**\n\n" +
	"1. **Agregar productos**: Haz clic en 'Agregar al Carrito'\n" +
	"2. **Ver carrito**: Ve a 'Carrito' en el menú\n" +
	"3. **Checkout**: Haz clic en 'Proceder al Pago'\n" +
	"4. **Envío**: Elige dirección y método de envío\n" +
	"5. **Pago**: Selecciona tu método de pago\n" +
	"6. **Confirmación**: Recibirás un email de confirmación\n\n" +
	"¿En qué paso necesitas ayuda?"

// fallbackRule pairs a predicate with a handler. Rules are evaluated in
// fixed priority order; the first match wins.
type fallbackRule struct {
	name    string
	matches func(ctx context.Context, message string) bool
	respond func(ctx context.Context, message string) (string, error)
}

// fallbackResponder answers messages from catalog data alone, without the
// external text-generation service.
type fallbackResponder struct {
	catalog Catalog
	logger  *slog.Logger
	rules   []fallbackRule
}

// NewFallbackResponder creates the rule-based response engine. The returned
// function is total: it never fails and never returns an empty string, for
// any input.
func NewFallbackResponder(catalog Catalog, logger *slog.Logger) RespondFn {
	f := &fallbackResponder{catalog: catalog, logger: logger}

	// Priority order: category > budget > account > purchase > stock.
	f.rules = []fallbackRule{
		{name: "category", matches: f.matchesCategory, respond: f.respondCategory},
		{name: "budget", matches: matchAny(budgetKeywords), respond: f.respondBudget},
		{name: "account", matches: matchAny(accountKeywords), respond: staticReply(accountHelpScript)},
		{name: "purchase", matches: matchAny(purchaseKeywords), respond: staticReply(purchaseHelpScript)},
		{name: "stock", matches: matchAny(stockKeywords), respond: f.respondStock},
	}

	return func(ctx context.Context, message string) string {
		normalized := strings.ToLower(message)

		for _, rule := range f.rules {
			if !rule.matches(ctx, normalized) {
				continue
			}

			answer, err := rule.respond(ctx, normalized)
			if err != nil {
				logger.Warn("fallback rule failed, degrading to static greeting",
					slog.String("rule", rule.name),
					slog.String("error", err.Error()),
				)
				return staticGreeting
			}

			logger.Debug("fallback rule matched", slog.String("rule", rule.name))
			return answer
		}

		answer, err := f.respondGreeting(ctx)
		if err != nil {
			logger.Warn("fallback greeting failed, degrading to static greeting",
				slog.String("error", err.Error()),
			)
			return staticGreeting
		}
		return answer
	}
}

// matchAny returns a predicate matching any of the given keywords.
func matchAny(keywords []string) func(ctx context.Context, message string) bool {
	return func(_ context.Context, message string) bool {
		for _, kw := range keywords {
			if strings.Contains(message, kw) {
				return true
			}
		}
		return false
	}
}

// staticReply returns a handler with a fixed script and no data lookup.
func staticReply(script string) func(ctx context.Context, message string) (string, error) {
	return func(context.Context, string) (string, error) {
		return script, nil
	}
}

// matchesCategory matches the static browsing keywords plus any category
// name currently in the catalog.
func (f *fallbackResponder) matchesCategory(ctx context.Context, message string) bool {
	for _, kw := range categoryKeywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	_, ok := f.mentionedCategory(ctx, message)
	return ok
}

// mentionedCategory finds a catalog category whose name appears in the
// message. Catalog faults are treated as no mention.
func (f *fallbackResponder) mentionedCategory(ctx context.Context, message string) (Category, bool) {
	categories, err := f.catalog.Categories(ctx)
	if err != nil {
		return Category{}, false
	}
	for _, cat := range categories {
		name := strings.ToLower(cat.Name)
		if name != "" && strings.Contains(message, name) {
			return cat, true
		}
	}
	// Allow singular mentions of plural category names ("computadora").
	for _, cat := range categories {
		name := strings.TrimSuffix(strings.ToLower(cat.Name), "s")
		if name != "" && strings.Contains(message, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// respondCategory lists the products of the mentioned category, or the
// category names when the request was generic.
func (f *fallbackResponder) respondCategory(ctx context.Context, message string) (string, error) {
	if cat, ok := f.mentionedCategory(ctx, message); ok {
		products, err := f.catalog.ProductsByCategory(ctx, cat.ID)
		if err != nil {
			return "", err
		}
		if len(products) == 0 {
			return fmt.Sprintf("❌ No hay productos disponibles en la categoría %s.", cat.Name), nil
		}
		return fmt.Sprintf("🛍️ **Productos en %s:**\n\n%s\n\n¿Te interesa alguno de estos productos?",
			cat.Name, productLines(products)), nil
	}

	categories, err := f.catalog.Categories(ctx)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(categories))
	for _, cat := range categories {
		lines = append(lines, "• "+cat.Name)
	}
	return fmt.Sprintf("📂 **Categorías disponibles:**\n\n%s\n\n"+
		"Puedo mostrarte los productos de cualquier categoría. ¿Cuál te interesa?",
		strings.Join(lines, "\n")), nil
}

// respondBudget lists the products within the default budget, ascending by
// price, or names the single cheapest product when none qualify.
func (f *fallbackResponder) respondBudget(ctx context.Context, message string) (string, error) {
	affordable, err := f.catalog.ProductsWithinBudget(ctx, DefaultBudget)
	if err != nil {
		return "", err
	}

	if len(affordable) > 0 {
		return fmt.Sprintf("💰 **Productos dentro de tu presupuesto de %s GS:**\n\n%s\n\n"+
			"¿Te gustaría más información de algún producto en particular?",
			groupThousands(DefaultBudget), productLines(affordable)), nil
	}

	available, err := f.catalog.AvailableProducts(ctx)
	if err != nil {
		return "", err
	}
	if len(available) == 0 {
		return "", fmt.Errorf("no available products for cheapest-product statistic")
	}

	cheapest := available[0]
	for _, p := range available[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
	}
	return fmt.Sprintf("❌ No hay productos dentro de tu presupuesto de %s GS. "+
		"El producto más económico es **%s** y cuesta $%s",
		groupThousands(DefaultBudget), cheapest.Name, formatPrice(cheapest.Price)), nil
}

// respondStock lists the top 3 products by descending stock count.
func (f *fallbackResponder) respondStock(ctx context.Context, message string) (string, error) {
	products, err := f.catalog.Products(ctx)
	if err != nil {
		return "", err
	}
	if len(products) == 0 {
		return "", fmt.Errorf("no products for stock statistic")
	}

	sort.Slice(products, func(i, j int) bool { return products[i].Stock > products[j].Stock })
	if len(products) > 3 {
		products = products[:3]
	}

	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("• **%s** - %d unidades", p.Name, p.Stock))
	}
	return fmt.Sprintf("📦 **Productos con mayor stock:**\n\n%s\n\n"+
		"¿Quieres información detallada de algún producto?", strings.Join(lines, "\n")), nil
}

// respondGreeting builds the general answer: store totals, three randomly
// sampled available products and the capability menu.
func (f *fallbackResponder) respondGreeting(ctx context.Context) (string, error) {
	products, err := f.catalog.Products(ctx)
	if err != nil {
		return "", err
	}
	categories, err := f.catalog.Categories(ctx)
	if err != nil {
		return "", err
	}
	available, err := f.catalog.AvailableProducts(ctx)
	if err != nil {
		return "", err
	}

	featured := sampleProducts(available, 3)
	lines := make([]string, 0, len(featured))
	for _, p := range featured {
		lines = append(lines, fmt.Sprintf("• **%s** - $%s", p.Name, formatPrice(p.Price)))
	}

	return fmt.Sprintf("¡Hola! Soy tu asistente virtual. 😊\n\n"+
		"**Resumen de la tienda:**\n"+
		"• %d productos disponibles\n"+
		"• %d categorías\n\n"+
		"**Algunos productos destacados:**\n%s\n\n"+
		"**Puedo ayudarte con:**\n"+
		"• 🛍️ Información de productos y stock\n"+
		"• 💰 Precios y presupuestos\n"+
		"• 🛒 Proceso de compra\n"+
		"• 🔐 Gestión de cuenta\n"+
		"• 📦 Seguimiento de pedidos\n"+
		"• 🔄 Comparación de productos\n\n"+
		"¿En qué necesitas ayuda específicamente?",
		len(products), len(categories), strings.Join(lines, "\n")), nil
}

// productLines renders the standard product bullet list.
func productLines(products []Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("• **%s** - $%s (Stock: %d)", p.Name, formatPrice(p.Price), p.Stock))
	}
	return strings.Join(lines, "\n")
}

// sampleProducts returns up to n randomly chosen products.
func sampleProducts(products []Product, n int) []Product {
	if len(products) <= n {
		return products
	}
	shuffled := append([]Product(nil), products...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// formatPrice renders a price without trailing zeros: 150000 -> "150000",
// 1999.5 -> "1999.5".
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// groupThousands renders an integer with thousands separators: 200000 ->
// "200,000".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
