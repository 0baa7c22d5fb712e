// Package cmd implements the CLI application to manage tax tariffs and
// compute liabilities.
package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&createTableCmd{}, "tariffs")
	c.Register(&updateTableCmd{}, "tariffs")
	c.Register(&deleteTableCmd{}, "tariffs")
	c.Register(&listCmd{}, "tariffs")
	c.Register(&showTableCmd{}, "tariffs")
	c.Register(&setBracketCmd{}, "tariffs")
	c.Register(&rmBracketCmd{}, "tariffs")
	c.Register(&importRowsCmd{}, "tariffs")
	c.Register(&exportRowsCmd{}, "tariffs")
	c.Register(&fetchFederalCmd{}, "tariffs")

	c.Register(&addRateCmd{}, "rates")
	c.Register(&updateRateCmd{}, "rates")
	c.Register(&rmRateCmd{}, "rates")
	c.Register(&ratesCmd{}, "rates")
	c.Register(&importRatesCmd{}, "rates")
	c.Register(&setPersonalCmd{}, "rates")
	c.Register(&rmPersonalCmd{}, "rates")
	c.Register(&personalsCmd{}, "rates")

	c.Register(&computeCmd{}, "evaluation")
	c.Register(&assistCmd{}, "evaluation")

	c.Register(&fmtCmd{}, "store")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeFile = flag.String("store", "tariffs.jsonl", "Path to the tariff store file (JSONL format)")

// LoadStore loads the app tariff store, creating an empty one if the file
// does not exist yet.
func LoadStore() (*steuer.Store, error) {
	if _, err := os.Stat(*storeFile); os.IsNotExist(err) {
		log.Println("warning, store does not exist, starting from an empty store instead")
	}
	return steuer.LoadStore(*storeFile)
}

// SaveStore persists the app tariff store.
func SaveStore(s *steuer.Store) error {
	return steuer.SaveStore(*storeFile, s)
}

// parseMoney parses a CLI amount flag exactly, without going through floats.
func parseMoney(s string) (steuer.Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return steuer.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return steuer.M(v), nil
}
