package steuer

import "fmt"

// Confession is the household's church affiliation. It selects which of the
// municipal church rates applies; a household without confession pays no
// church tax.
type Confession int

const (
	NoConfession Confession = iota
	Reformed
	Catholic
	ChristianCatholic
)

func (c Confession) String() string {
	switch c {
	case NoConfession:
		return "none"
	case Reformed:
		return "reformed"
	case Catholic:
		return "catholic"
	case ChristianCatholic:
		return "christian-catholic"
	default:
		return "unknown"
	}
}

// ParseConfession parses a string into a Confession. The empty string is
// accepted as no confession.
func ParseConfession(s string) (Confession, error) {
	switch s {
	case "", "none":
		return NoConfession, nil
	case "reformed":
		return Reformed, nil
	case "catholic":
		return Catholic, nil
	case "christian-catholic":
		return ChristianCatholic, nil
	default:
		return 0, fmt.Errorf("unknown confession: %q", s)
	}
}
