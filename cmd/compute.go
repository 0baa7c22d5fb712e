package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/etnz/steuer/renderer"
	"github.com/google/subcommands"
)

type computeCmd struct {
	canton       string
	municipality string
	income       string
	wealth       string
	confession   string
	children     int
	adults       int
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "compute the total tax liability for a household" }
func (*computeCmd) Usage() string {
	return `sts compute -canton <XX> -income <amount> [-municipality <name>] [-wealth <amount>] [-confession <none|reformed|catholic|christian-catholic>] [-children <n>] [-adults <n>]

  Computes the itemized liability: state income and wealth tax, the
  municipal multiplier and church share, the federal tax with its per-child
  deduction, and the flat personal tax. Tariff data the store lacks
  contributes zero and is reported as a warning, except the state income
  tariff which is required.
`
}

func (p *computeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.canton, "canton", "", "Canton abbreviation (e.g. ZH).")
	f.StringVar(&p.municipality, "municipality", "", "Municipality of residence.")
	f.StringVar(&p.income, "income", "0", "Taxable income.")
	f.StringVar(&p.wealth, "wealth", "0", "Taxable wealth.")
	f.StringVar(&p.confession, "confession", "none", "Confession: none, reformed, catholic or christian-catholic.")
	f.IntVar(&p.children, "children", 0, "Number of children.")
	f.IntVar(&p.adults, "adults", 1, "Number of adults in the household.")
}

// input parses the command flags into a computation input.
func (p *computeCmd) input() (steuer.Input, error) {
	in := steuer.Input{
		Canton:       p.canton,
		Municipality: p.municipality,
		NumChildren:  p.children,
		NumAdults:    p.adults,
	}
	var err error
	if in.TaxableIncome, err = parseMoney(p.income); err != nil {
		return steuer.Input{}, err
	}
	if in.TaxableWealth, err = parseMoney(p.wealth); err != nil {
		return steuer.Input{}, err
	}
	if in.Confession, err = steuer.ParseConfession(p.confession); err != nil {
		return steuer.Input{}, err
	}
	return in, nil
}

func (p *computeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := p.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	breakdown, err := store.Calculator().Compute(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Breakdown(in, breakdown))
	return subcommands.ExitSuccess
}
