package importer

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// ParseLocaleNumber parses a Brazilian-locale decimal cell. Strings with
// both "." and "," treat the dot as thousands grouping and the comma as
// the decimal point; comma-only strings treat the comma as the decimal
// point; everything else parses as-is. Returns ok=false for empty or
// unparseable input. Never panics.
func ParseLocaleNumber(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return decimal.Decimal{}, false
		}
		hasDot := strings.Contains(raw, ".")
		hasComma := strings.Contains(raw, ",")
		switch {
		case hasDot && hasComma:
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		case hasComma:
			raw = strings.Replace(raw, ",", ".", 1)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// Slugify turns human text into a URL-safe identifier. Empty output is
// possible (e.g. all-symbol input); callers fall back to the lower-cased
// source code in that case.
func Slugify(text string) string {
	return slug.Make(text)
}

// DeriveWindow backfills a planning-window quantity from the 30-day
// baseline: round(base30 * days / 30, 3) half-up.
func DeriveWindow(base30 decimal.Decimal, days int64) decimal.Decimal {
	return base30.Mul(decimal.NewFromInt(days)).Div(decimal.NewFromInt(30)).Round(3)
}
