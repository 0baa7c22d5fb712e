package steuer

import "fmt"

// Scope defines which tax base a state bracket table applies to.
type Scope int

const (
	// Income taxes the household's taxable income.
	Income Scope = iota
	// Wealth taxes the household's taxable wealth.
	Wealth
)

func (s Scope) String() string {
	switch s {
	case Income:
		return "income"
	case Wealth:
		return "wealth"
	default:
		return "unknown"
	}
}

// ParseScope parses a string into a Scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "income":
		return Income, nil
	case "wealth":
		return Wealth, nil
	default:
		return 0, fmt.Errorf("unknown scope: %q", s)
	}
}
