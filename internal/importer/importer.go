// Package importer parses and validates catalog spreadsheets (CSV/XLSX)
// into normalized rows ready for reconciliation. It is pure: no database
// access, no mutation of shared state.
package importer

import "github.com/shopspring/decimal"

// Recognized spreadsheet columns, matched after uppercasing the header.
const (
	ColSegmentCode = "COD_SEGMENTO"
	ColProduct     = "PRODUTO"
	ColSection     = "SECAO"
	ColUnit        = "UNIDADE"
	ColNote        = "OBS"
	ColAvgPrice    = "VALOR_MEDIO"
	ColQty7        = "QTD_7"
	ColQty15       = "QTD_15"
	ColQty30       = "QTD_30"
	ColQtyIdeal    = "QTD_IDEAL"
	ColQty60       = "QTD_60"
	ColQty90       = "QTD_90"
)

// RawRow maps an uppercased column name to the trimmed cell value.
// Unrecognized columns are carried but ignored by validation.
type RawRow map[string]string

// Row is a validated, normalized line item. Absent window quantities are
// backfilled from the 30-day baseline.
type Row struct {
	Number      int // spreadsheet row (header = 1)
	SegmentCode string
	ProductName string
	Section     *string
	Unit        *string
	Note        *string
	Qty7        decimal.Decimal
	Qty15       decimal.Decimal
	Qty30       decimal.Decimal
	Qty60       decimal.Decimal
	Qty90       decimal.Decimal
	AvgPrice    decimal.Decimal
}

// RowError is one validation failure. Row 0 marks a file-level problem.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Limits bounds validation work for the interactive pre-check. The zero
// value means unlimited (the authoritative commit path).
type Limits struct {
	MaxRows   int
	MaxErrors int
}
