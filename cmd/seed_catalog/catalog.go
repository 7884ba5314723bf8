package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var expectedHeader = []string{"sku", "name", "category", "price", "description"}

// catalogRow fila válida del CSV de productos.
type catalogRow struct {
	ID          uuid.UUID
	SKU         string
	Name        string
	Category    string
	Price       decimal.Decimal
	Description string
}

// decodeInput envuelve r con el decodificador ISO-8859-1 cuando corresponde.
func decodeInput(r io.Reader, sample []byte, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "", "auto":
		if utf8.Valid(sample) {
			return r, nil
		}
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}
}

// catalogID id estable por SKU para que el seed sea repetible.
func catalogID(sku string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("stock-ledger/product/"+strings.ToUpper(sku)))
}

// parseCatalog lee el CSV, valida cada fila y devuelve los productos ordenados por SKU.
// Un SKU repetido conserva la última fila.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("CSV vacío")
		}
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range expectedHeader[:4] {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("falta la columna %q", name)
		}
	}

	bySKU := make(map[string]catalogRow)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		sku, name, category := field("sku"), field("name"), field("category")
		if sku == "" || name == "" || category == "" {
			return nil, fmt.Errorf("línea %d: sku, name y category son obligatorios", line)
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(field("price"), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, field("price"))
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("línea %d: el precio debe ser mayor que cero", line)
		}
		bySKU[sku] = catalogRow{
			ID:          catalogID(sku),
			SKU:         sku,
			Name:        name,
			Category:    category,
			Price:       price.Round(2),
			Description: field("description"),
		}
	}

	rows := make([]catalogRow, 0, len(bySKU))
	for _, row := range bySKU {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })
	return rows, nil
}

// writeSeed escribe un INSERT por producto con upsert por SKU.
func writeSeed(w io.Writer, rows []catalogRow, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de productos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	for _, row := range rows {
		b.WriteString("INSERT INTO products (id, name, description, category, price, sku)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', %s, '%s')\n",
			row.ID, escapeSQL(row.Name), escapeSQL(row.Description), escapeSQL(row.Category),
			row.Price.StringFixed(2), escapeSQL(row.SKU))
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,\n")
		b.WriteString("  category = EXCLUDED.category, price = EXCLUDED.price, updated_at = NOW();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
