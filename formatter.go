package chatbot

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// StockList returns the stock listing for all available products, with a
// preformatted display line per product.
func StockList(ctx context.Context, catalog Catalog) ([]StockItem, error) {
	products, err := catalog.AvailableProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading available products: %w", err)
	}

	items := make([]StockItem, 0, len(products))
	for _, p := range products {
		items = append(items, StockItem{
			ID:      p.ID,
			Name:    p.Name,
			Stock:   p.Stock,
			Price:   p.Price,
			Display: fmt.Sprintf("%s - Stock: %d - $%s", p.Name, p.Stock, formatPrice(p.Price)),
		})
	}
	return items, nil
}

// StockReportPDF renders the stock report as a paginated PDF document:
// products grouped by category, a header whenever the category changes, one
// line per product.
func StockReportPDF(ctx context.Context, catalog Catalog, now time.Time) ([]byte, error) {
	products, err := catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].CategoryName != products[j].CategoryName {
			return products[i].CategoryName < products[j].CategoryName
		}
		return products[i].Name < products[j].Name
	})

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Reporte de Stock - E-commerce", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Reporte de Stock de Productos"))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr("Generado el: "+now.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	currentCategory := ""
	for _, p := range products {
		if p.CategoryName != currentCategory {
			currentCategory = p.CategoryName
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Cell(0, 7, tr("Categoría: "+currentCategory))
			pdf.Ln(7)
			pdf.SetFont("Helvetica", "", 10)
		}

		line := fmt.Sprintf("    %s - Stock: %d - Precio: $%s", p.Name, p.Stock, formatPrice(p.Price))
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering stock PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ManualComparison renders a deterministic side-by-side comparison of two or
// more products. Products are listed in the order they were requested.
func ManualComparison(products []Product) string {
	if len(products) == 0 {
		return "No hay productos para comparar."
	}

	var b strings.Builder
	b.WriteString("🔄 **Comparación de productos:**\n")

	for _, p := range products {
		fmt.Fprintf(&b, "\n**%s** (Categoría: %s)\n", p.Name, p.CategoryName)
		fmt.Fprintf(&b, "• Precio: $%s\n", formatPrice(p.Price))
		fmt.Fprintf(&b, "• Stock: %d unidades\n", p.Stock)
		if p.Description != "" {
			fmt.Fprintf(&b, "• %s\n", p.Description)
		}
	}

	cheapest, mostStock := products[0], products[0]
	for _, p := range products[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
		if p.Stock > mostStock.Stock {
			mostStock = p
		}
	}

	b.WriteString("\n**Resumen:**\n")
	fmt.Fprintf(&b, "• Más económico: **%s** ($%s)\n", cheapest.Name, formatPrice(cheapest.Price))
	fmt.Fprintf(&b, "• Mayor stock: **%s** (%d unidades)\n", mostStock.Name, mostStock.Stock)
	b.WriteString("\n¿Necesitas más detalles de alguno de estos productos?")

	return b.String()
}
