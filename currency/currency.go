package currency

import (
	"fmt"
	"strconv"
)

// Paise is a rupee amount in integer paise. All arithmetic happens on this
// type so totals never drift the way float sums do; JSON exposes the value
// as a plain decimal rupee number, which is what the storefront expects.
type Paise int64

// FromRupees converts a decimal rupee amount to paise, rounding half-up.
func FromRupees(r float64) Paise {
	if r < 0 {
		return Paise(int64(r*100 - 0.5))
	}
	return Paise(int64(r*100 + 0.5))
}

// Rupees returns the amount as decimal rupees.
func (p Paise) Rupees() float64 {
	return float64(p) / 100
}

func (p Paise) String() string {
	return strconv.FormatFloat(p.Rupees(), 'f', 2, 64)
}

// MarshalJSON emits decimal rupees, e.g. 1299900 paise -> 12999.00
func (p Paise) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts a decimal rupee number.
func (p *Paise) UnmarshalJSON(b []byte) error {
	r, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", b, err)
	}
	*p = FromRupees(r)
	return nil
}

// PercentHalfUp computes amount × pct% rounded half-up to the nearest paisa.
// Only defined for non-negative amounts, which is all money ever is here.
func PercentHalfUp(amount Paise, pct int64) Paise {
	return Paise((int64(amount)*pct + 50) / 100)
}
