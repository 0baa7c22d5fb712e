package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer/renderer"
	"github.com/google/subcommands"
)

type ratesCmd struct {
	canton string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "list municipal multiplier rates" }
func (*ratesCmd) Usage() string {
	return `sts rates [-canton <XX>]

  Lists the municipal rates in the store, optionally filtered by canton.
`
}

func (p *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.canton, "canton", "", "Only rates of this canton.")
}

func (p *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates := store.Rates.Municipals()
	if p.canton != "" {
		n := 0
		for _, rate := range rates {
			if rate.Canton == p.canton {
				rates[n] = rate
				n++
			}
		}
		rates = rates[:n]
	}
	printMarkdown(renderer.MunicipalRates(rates))
	return subcommands.ExitSuccess
}
