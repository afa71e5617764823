package importer

import (
	"errors"
	"testing"
)

func TestParseFileCSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFcod_segmento,produto,qtd_30,valor_medio,secao\n" +
		"ACAI,Açaí (polpa),12,\"18,90\",Polpas\n" +
		"ACAI,Copos 300ml,100,\"0,45\",\n")
	rows, err := ParseFile("catalogo.csv", data)
	if err != nil {
		t.Fatalf("parse csv failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][ColSegmentCode] != "ACAI" {
		t.Fatalf("header should be uppercased, got %v", rows[0])
	}
	if rows[0][ColAvgPrice] != "18,90" {
		t.Fatalf("quoted cell mangled: %q", rows[0][ColAvgPrice])
	}
	if rows[1][ColSection] != "" {
		t.Fatalf("missing cell should be empty, got %q", rows[1][ColSection])
	}
}

func TestParseFileSkipsBlankLines(t *testing.T) {
	data := []byte("COD_SEGMENTO,PRODUTO\nACAI,Polpa\n,\n")
	rows, err := ParseFile("x.csv", data)
	if err != nil {
		t.Fatalf("parse csv failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected blank row to be dropped, got %d rows", len(rows))
	}
}

func TestParseFileUnsupportedFormat(t *testing.T) {
	if _, err := ParseFile("catalogo.pdf", []byte("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFileEmpty(t *testing.T) {
	if _, err := ParseFile("catalogo.csv", nil); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile for empty file, got %v", err)
	}
	if _, err := ParseFile("catalogo.csv", []byte("COD_SEGMENTO,PRODUTO\n")); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile for header-only file, got %v", err)
	}
}
