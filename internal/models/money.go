package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is the shared currency type, always carrying 2 decimal places.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal builds a Money rounded to 2 decimal places.
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// MarshalJSON always emits a 2-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON accepts either a string or a number.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d.Round(2)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	m.Decimal = decimal.NewFromFloat(f).Round(2)
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan implements sql.Scanner.
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}

// String returns the 2-decimal representation.
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}

// Quantity is the shared item-quantity type, carrying 3 decimal places.
type Quantity struct {
	decimal.Decimal
}

// NewQuantityFromDecimal builds a Quantity rounded to 3 decimal places.
func NewQuantityFromDecimal(amount decimal.Decimal) Quantity {
	return Quantity{Decimal: amount.Round(3)}
}

// MarshalJSON always emits a 3-decimal string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Decimal.Round(3).StringFixed(3))
}

// UnmarshalJSON accepts either a string or a number.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		q.Decimal = d.Round(3)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	q.Decimal = decimal.NewFromFloat(f).Round(3)
	return nil
}

// Value implements driver.Valuer.
func (q Quantity) Value() (driver.Value, error) {
	return q.Decimal.Round(3).Value()
}

// Scan implements sql.Scanner.
func (q *Quantity) Scan(value interface{}) error {
	if err := q.Decimal.Scan(value); err != nil {
		return err
	}
	q.Decimal = q.Decimal.Round(3)
	return nil
}

// String returns the 3-decimal representation.
func (q Quantity) String() string {
	return q.Decimal.Round(3).StringFixed(3)
}
