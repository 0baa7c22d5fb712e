package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type addRateCmd struct {
	municipality string
	canton       string
	base         string
	ref          string
	cath         string
	chrisCath    string
}

func (*addRateCmd) Name() string     { return "add-rate" }
func (*addRateCmd) Synopsis() string { return "add a municipal multiplier rate" }
func (*addRateCmd) Usage() string {
	return `sts add-rate -municipality <name> -canton <XX> -base <percent> [-ref <percent>] [-cath <percent>] [-christian-cath <percent>]

  Adds the multiplier a municipality levies on the state tax, and optionally
  its church rates per confession. A church rate left out means the
  municipality publishes none, which is not the same as a rate of zero.
`
}

func (p *addRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.municipality, "municipality", "", "Municipality name.")
	f.StringVar(&p.canton, "canton", "", "Canton abbreviation (e.g. ZH).")
	f.StringVar(&p.base, "base", "", "Municipal multiplier in percent of the state tax.")
	f.StringVar(&p.ref, "ref", "", "Reformed church rate in percent.")
	f.StringVar(&p.cath, "cath", "", "Roman Catholic church rate in percent.")
	f.StringVar(&p.chrisCath, "christian-cath", "", "Christian Catholic church rate in percent.")
}

// parseOptionalPercent parses a rate flag, mapping the unset flag to nil.
func parseOptionalPercent(s string) (*steuer.Percent, error) {
	if s == "" {
		return nil, nil
	}
	p, err := steuer.ParsePercent(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *addRateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	base, err := steuer.ParsePercent(p.base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	rate := steuer.MunicipalRate{
		Municipality: p.municipality,
		Canton:       p.canton,
		BaseRate:     base,
	}
	if rate.RefRate, err = parseOptionalPercent(p.ref); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if rate.CathRate, err = parseOptionalPercent(p.cath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if rate.ChristianCathRate, err = parseOptionalPercent(p.chrisCath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	created, err := store.Rates.CreateMunicipal(rate)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added rate %s for %s (%s) with id %q\n", created.BaseRate, created.Municipality, created.Canton, created.ID)
	return subcommands.ExitSuccess
}
