package steuer

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Percent is a rate expressed in percentage points, e.g. the Zurich municipal
// multiplier 119.5 means 119.5% of the base state tax.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// Apply returns p percent of the given amount, computed exactly.
func (p Percent) Apply(m Money) Money {
	rate := decimal.NewFromFloat(float64(p)).Shift(-2)
	return Money{value: m.value.Mul(rate)}
}

// ParsePercent parses a string like "119.5" into a Percent.
func ParsePercent(s string) (Percent, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return Percent(v), nil
}
