package model

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
)

// Money is a monetary amount in COP, stored as a non-negative integer of the
// smallest currency unit. No floating-point representation ever crosses the
// API or storage boundary.
type Money struct {
	amount int64
}

// NewMoney builds a Money from an integer COP amount.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, ValidationError(fmt.Sprintf("el monto debe ser un entero no negativo en COP, recibido: %d", amount))
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromFloat64 rejects fractional values instead of rounding them —
// callers sending 1500.5 COP have a bug, not a rounding preference.
func NewMoneyFromFloat64(amount float64) (Money, error) {
	if amount != math.Trunc(amount) {
		return Money{}, ValidationError(fmt.Sprintf("el monto debe ser un entero no negativo en COP, recibido: %v", amount))
	}
	return NewMoney(int64(amount))
}

func ZeroMoney() Money { return Money{} }

func (m Money) Amount() int64 { return m.amount }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

// Sub floors at zero: Money is never negative.
func (m Money) Sub(other Money) Money {
	if other.amount >= m.amount {
		return Money{}
	}
	return Money{amount: m.amount - other.amount}
}

func (m Money) GreaterThan(other Money) bool { return m.amount > other.amount }

func (m Money) Equals(other Money) bool { return m.amount == other.amount }

func (m Money) IsZero() bool { return m.amount == 0 }

func (m Money) String() string { return strconv.FormatInt(m.amount, 10) }

// GORM / database/sql integration: persisted as BIGINT.

func (m Money) Value() (driver.Value, error) { return m.amount, nil }

func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		if v < 0 {
			return fmt.Errorf("money: negative amount %d in storage", v)
		}
		m.amount = v
		return nil
	case nil:
		m.amount = 0
		return nil
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
}

// JSON integration: serialized as a bare integer.

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.amount, 10)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	parsed, err := NewMoneyFromFloat64(f)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
