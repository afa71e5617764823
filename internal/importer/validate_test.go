package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func makeRow(overrides map[string]string) RawRow {
	row := RawRow{
		ColSegmentCode: "ACAI",
		ColProduct:     "Açaí (polpa)",
		ColQty30:       "12",
		ColAvgPrice:    "18,90",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestValidateHappyPathDerivesWindows(t *testing.T) {
	prepared, errs := Validate([]RawRow{makeRow(nil)}, Limits{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(prepared) != 1 {
		t.Fatalf("expected 1 prepared row, got %d", len(prepared))
	}
	row := prepared[0]
	if row.Number != 2 {
		t.Fatalf("expected spreadsheet row 2, got %d", row.Number)
	}
	expect := map[string]string{"7": "2.8", "15": "6", "60": "24", "90": "36"}
	got := map[string]decimal.Decimal{"7": row.Qty7, "15": row.Qty15, "60": row.Qty60, "90": row.Qty90}
	for window, wantStr := range expect {
		want, _ := decimal.NewFromString(wantStr)
		if !got[window].Equal(want) {
			t.Fatalf("window %s: got %s expected %s", window, got[window], want)
		}
	}
	wantPrice, _ := decimal.NewFromString("18.9")
	if !row.AvgPrice.Equal(wantPrice) {
		t.Fatalf("avg price: got %s expected %s", row.AvgPrice, wantPrice)
	}
	if row.Section != nil || row.Unit != nil || row.Note != nil {
		t.Fatalf("expected absent optional fields to be nil")
	}
}

func TestValidateExplicitWindowWins(t *testing.T) {
	prepared, errs := Validate([]RawRow{makeRow(map[string]string{ColQty7: "5"})}, Limits{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if !prepared[0].Qty7.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("explicit QTD_7 must win, got %s", prepared[0].Qty7)
	}
	// Windows without explicit values are still derived.
	want, _ := decimal.NewFromString("6")
	if !prepared[0].Qty15.Equal(want) {
		t.Fatalf("QTD_15 should be derived, got %s", prepared[0].Qty15)
	}
}

func TestValidateBaselineFallsBackToIdeal(t *testing.T) {
	row := RawRow{
		ColSegmentCode: "ACAI",
		ColProduct:     "Polpa",
		ColQtyIdeal:    "30",
		ColAvgPrice:    "10",
	}
	prepared, errs := Validate([]RawRow{row}, Limits{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if !prepared[0].Qty30.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("baseline should come from QTD_IDEAL, got %s", prepared[0].Qty30)
	}
}

func TestValidateMissingColumns(t *testing.T) {
	rows := []RawRow{{"FOO": "bar"}}
	_, errs := Validate(rows, Limits{})

	want := map[string]bool{
		"Coluna obrigatória ausente: COD_SEGMENTO":        false,
		"Coluna obrigatória ausente: PRODUTO":             false,
		"Coluna obrigatória ausente: VALOR_MEDIO":         false,
		"Coluna obrigatória ausente: QTD_IDEAL ou QTD_30": false,
	}
	for _, e := range errs {
		if e.Row != 0 {
			continue
		}
		if _, ok := want[e.Message]; ok {
			want[e.Message] = true
		}
	}
	for msg, seen := range want {
		if !seen {
			t.Fatalf("expected file-level error %q, got %v", msg, errs)
		}
	}
}

func TestValidateCollectsAllRowErrors(t *testing.T) {
	rows := []RawRow{
		makeRow(nil),                                   // row 2, valid
		makeRow(map[string]string{ColSegmentCode: ""}), // row 3
		makeRow(nil),                                   // row 4, valid
		makeRow(map[string]string{ColAvgPrice: "abc"}), // row 5
		makeRow(map[string]string{ColQty30: "-1"}),     // row 6
	}
	prepared, errs := Validate(rows, Limits{})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	byRow := map[int]string{}
	for _, e := range errs {
		byRow[e.Row] = e.Message
	}
	if byRow[3] != "COD_SEGMENTO vazio" {
		t.Fatalf("row 3: got %q", byRow[3])
	}
	if byRow[5] != "VALOR_MEDIO inválido" {
		t.Fatalf("row 5: got %q", byRow[5])
	}
	if byRow[6] != "QTD_IDEAL ou QTD_30 inválido" {
		t.Fatalf("row 6: got %q", byRow[6])
	}
	if len(prepared) != 2 {
		t.Fatalf("expected 2 prepared rows, got %d", len(prepared))
	}
}

func TestValidateRowAccumulatesMultipleErrors(t *testing.T) {
	rows := []RawRow{makeRow(map[string]string{
		ColSegmentCode: "",
		ColProduct:     "",
		ColAvgPrice:    "x",
	})}
	_, errs := Validate(rows, Limits{})
	if len(errs) != 3 {
		t.Fatalf("expected 3 independent errors on one row, got %v", errs)
	}
	for _, e := range errs {
		if e.Row != 2 {
			t.Fatalf("expected all errors on row 2, got %v", errs)
		}
	}
}

func TestValidateNegativeWindowRejected(t *testing.T) {
	_, errs := Validate([]RawRow{makeRow(map[string]string{ColQty60: "-2"})}, Limits{})
	if len(errs) != 1 || errs[0].Message != "QTD_60 inválido" {
		t.Fatalf("expected QTD_60 inválido, got %v", errs)
	}
}

func TestValidatePrecheckLimits(t *testing.T) {
	var rows []RawRow
	for i := 0; i < 300; i++ {
		rows = append(rows, makeRow(map[string]string{ColSegmentCode: ""}))
	}

	_, errs := Validate(rows, Limits{MaxRows: 200, MaxErrors: 20})
	if len(errs) != 20 {
		t.Fatalf("expected error cap at 20, got %d", len(errs))
	}

	prepared, errs := Validate(makeValidRows(300), Limits{MaxRows: 200, MaxErrors: 20})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(prepared) != 200 {
		t.Fatalf("expected row scan cap at 200, got %d", len(prepared))
	}
}

func makeValidRows(n int) []RawRow {
	rows := make([]RawRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, makeRow(map[string]string{ColProduct: "Produto " + strings.Repeat("x", i%5+1)}))
	}
	return rows
}
