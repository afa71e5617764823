package importer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var requiredColumns = []string{ColSegmentCode, ColProduct, ColAvgPrice}

var windowColumns = []struct {
	column string
	days   int64
}{
	{ColQty7, 7},
	{ColQty15, 15},
	{ColQty60, 60},
	{ColQty90, 90},
}

// Validate checks the whole batch and normalizes valid rows. It never
// halts on the first failure: every row is checked and every problem is
// reported, subject only to the pre-check limits. A non-empty error list
// means the batch must not be committed.
func Validate(rows []RawRow, limits Limits) ([]Row, []RowError) {
	var errs []RowError

	columns := map[string]bool{}
	if len(rows) > 0 {
		for col := range rows[0] {
			columns[col] = true
		}
	}
	for _, col := range requiredColumns {
		if !columns[col] {
			errs = append(errs, RowError{Row: 0, Message: fmt.Sprintf("Coluna obrigatória ausente: %s", col)})
		}
	}
	if !columns[ColQty30] && !columns[ColQtyIdeal] {
		errs = append(errs, RowError{Row: 0, Message: "Coluna obrigatória ausente: QTD_IDEAL ou QTD_30"})
	}

	prepared := make([]Row, 0, len(rows))
	for i, raw := range rows {
		if limits.MaxRows > 0 && i >= limits.MaxRows {
			break
		}
		if limits.MaxErrors > 0 && len(errs) >= limits.MaxErrors {
			break
		}

		// Header occupies spreadsheet row 1.
		number := i + 2
		before := len(errs)

		code := raw[ColSegmentCode]
		if code == "" {
			errs = append(errs, RowError{Row: number, Message: "COD_SEGMENTO vazio"})
		}
		product := raw[ColProduct]
		if product == "" {
			errs = append(errs, RowError{Row: number, Message: "PRODUTO vazio"})
		}

		baselineCell := raw[ColQty30]
		if baselineCell == "" {
			baselineCell = raw[ColQtyIdeal]
		}
		base30, ok := ParseLocaleNumber(baselineCell)
		if !ok || base30.IsNegative() {
			errs = append(errs, RowError{Row: number, Message: "QTD_IDEAL ou QTD_30 inválido"})
		}

		windows := map[string]decimal.Decimal{}
		for _, w := range windowColumns {
			cell := raw[w.column]
			if cell == "" {
				continue
			}
			qty, qok := ParseLocaleNumber(cell)
			if !qok || qty.IsNegative() {
				errs = append(errs, RowError{Row: number, Message: fmt.Sprintf("%s inválido", w.column)})
				continue
			}
			windows[w.column] = qty
		}

		avgPrice, ok := ParseLocaleNumber(raw[ColAvgPrice])
		if !ok || avgPrice.IsNegative() {
			errs = append(errs, RowError{Row: number, Message: "VALOR_MEDIO inválido"})
		}

		if len(errs) > before {
			continue
		}

		row := Row{
			Number:      number,
			SegmentCode: code,
			ProductName: product,
			Section:     optional(raw[ColSection]),
			Unit:        optional(raw[ColUnit]),
			Note:        optional(raw[ColNote]),
			Qty30:       base30,
			AvgPrice:    avgPrice,
		}
		row.Qty7 = windowOrDerived(windows, ColQty7, base30, 7)
		row.Qty15 = windowOrDerived(windows, ColQty15, base30, 15)
		row.Qty60 = windowOrDerived(windows, ColQty60, base30, 60)
		row.Qty90 = windowOrDerived(windows, ColQty90, base30, 90)
		prepared = append(prepared, row)
	}

	return prepared, errs
}

// windowOrDerived prefers the explicit cell value over the derived one.
func windowOrDerived(windows map[string]decimal.Decimal, column string, base30 decimal.Decimal, days int64) decimal.Decimal {
	if qty, ok := windows[column]; ok {
		return qty
	}
	return DeriveWindow(base30, days)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
