package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// namespace fijo para que los UUID de categorías y productos sean estables entre ejecuciones.
var seedNamespace = uuid.MustParse("6f1d8f8e-2b7a-4c39-9a55-1f0c3c1e7a10")

type catalogRow struct {
	SKU      string
	Name     string
	Category string
	UoM      string
	MinStock decimal.Decimal
	Cost     decimal.Decimal
	line     int
}

// parseCatalog lee el CSV. Con latin1 decodifica ISO-8859-1 (export típico de Excel en español).
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows []catalogRow
		seen = make(map[string]int)
	)
	for n := 0; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 || blank(rec) {
			continue // encabezado
		}
		row, err := parseRow(rec, n+1)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[strings.ToUpper(row.SKU)]; dup {
			return nil, fmt.Errorf("línea %d: SKU %s repetido (ya en línea %d)", row.line, row.SKU, prev)
		}
		seen[strings.ToUpper(row.SKU)] = row.line
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string, line int) (catalogRow, error) {
	if len(rec) < 2 {
		return catalogRow{}, fmt.Errorf("línea %d: se esperan al menos sku y nombre", line)
	}
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	row := catalogRow{
		SKU:      field(0),
		Name:     field(1),
		Category: field(2),
		UoM:      field(3),
		line:     line,
	}
	if row.SKU == "" || row.Name == "" {
		return row, fmt.Errorf("línea %d: sku y nombre son obligatorios", line)
	}
	var err error
	if row.MinStock, err = parseAmount(field(4)); err != nil {
		return row, fmt.Errorf("línea %d: stock_minimo: %w", line, err)
	}
	if row.Cost, err = parseAmount(field(5)); err != nil {
		return row, fmt.Errorf("línea %d: costo: %w", line, err)
	}
	if row.MinStock.IsNegative() || row.Cost.IsNegative() {
		return row, fmt.Errorf("línea %d: stock_minimo y costo no pueden ser negativos", line)
	}
	return row, nil
}

// parseAmount acepta coma decimal ("12,50") y vacío como cero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func categoriesOf(rows []catalogRow) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		if r.Category != "" {
			set[r.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// writeSQL escribe inserts idempotentes: categorías por nombre y productos por SKU.
// Las unidades se enlazan por abreviatura si ya existen.
func writeSQL(w io.Writer, rows []catalogRow) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if cats := categoriesOf(rows); len(cats) > 0 {
		b.WriteString("-- 1. Categorías\n")
		b.WriteString("INSERT INTO categories (id, name) VALUES\n")
		for i, c := range cats {
			sep := ","
			if i == len(cats)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  ('%s', '%s')%s\n", uuid.NewSHA1(seedNamespace, []byte("category:"+c)), escapeSQL(c), sep)
		}
		b.WriteString("ON CONFLICT (name) DO NOTHING;\n\n")
	}

	b.WriteString("-- 2. Productos\n")
	for _, r := range rows {
		category, uom := "NULL", "NULL"
		if r.Category != "" {
			category = fmt.Sprintf("(SELECT id FROM categories WHERE name = '%s')", escapeSQL(r.Category))
		}
		if r.UoM != "" {
			uom = fmt.Sprintf("(SELECT id FROM units_of_measure WHERE abbreviation = '%s')", escapeSQL(r.UoM))
		}
		fmt.Fprintf(&b, "INSERT INTO products (id, sku, name, category_id, uom_id, min_stock, cost)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', %s, %s, %s, %s)\n",
			uuid.NewSHA1(seedNamespace, []byte("product:"+strings.ToUpper(r.SKU))),
			escapeSQL(r.SKU), escapeSQL(r.Name), category, uom, r.MinStock.String(), r.Cost.String())
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, min_stock = EXCLUDED.min_stock;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
