package importer

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLocaleNumber(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"thousands and decimal", "1.234,56", "1234.56", true},
		{"comma decimal", "18,90", "18.9", true},
		{"plain integer", "12", "12", true},
		{"dot decimal passes through", "1.5", "1.5", true},
		{"negative parses", "-3,5", "-3.5", true},
		{"surrounding spaces", "  7,25  ", "7.25", true},
		{"float input", 18.9, "18.9", true},
		{"int input", 12, "12", true},
		{"empty string", "", "", false},
		{"blank string", "   ", "", false},
		{"garbage", "abc", "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		got, ok := ParseLocaleNumber(tc.input)
		if ok != tc.ok {
			t.Fatalf("%s: ok=%v expected %v", tc.name, ok, tc.ok)
		}
		if !tc.ok {
			continue
		}
		want, err := decimal.NewFromString(tc.want)
		if err != nil {
			t.Fatalf("%s: bad expectation: %v", tc.name, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: got %s expected %s", tc.name, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("Açaí e Polpas"); got != "acai-e-polpas" {
		t.Fatalf("unexpected slug: %s", got)
	}
	if got := Slugify("ACAI"); got != "acai" {
		t.Fatalf("unexpected slug: %s", got)
	}
}

func TestDeriveWindow(t *testing.T) {
	base := decimal.NewFromInt(12)
	cases := []struct {
		days int64
		want string
	}{
		{7, "2.8"},
		{15, "6"},
		{60, "24"},
		{90, "36"},
	}
	for _, tc := range cases {
		want, _ := decimal.NewFromString(tc.want)
		if got := DeriveWindow(base, tc.days); !got.Equal(want) {
			t.Fatalf("derive %d days: got %s expected %s", tc.days, got, want)
		}
	}

	if got := DeriveWindow(decimal.NewFromInt(30), 30); !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("derive identity: got %s", got)
	}

	// Rounding at the 3rd decimal is half-up.
	third := DeriveWindow(decimal.NewFromInt(1), 10)
	want, _ := decimal.NewFromString("0.333")
	if !third.Equal(want) {
		t.Fatalf("derive rounding: got %s expected %s", third, want)
	}
}
