package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type setPersonalCmd struct {
	canton string
	amount string
}

func (*setPersonalCmd) Name() string     { return "set-personal" }
func (*setPersonalCmd) Synopsis() string { return "set a canton's flat personal tax" }
func (*setPersonalCmd) Usage() string {
	return `sts set-personal -canton <XX> -amount <amount>

  Sets the flat per-adult tax a canton levies regardless of income,
  creating the entry or replacing the existing amount.
`
}

func (p *setPersonalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.canton, "canton", "", "Canton abbreviation (e.g. ZH).")
	f.StringVar(&p.amount, "amount", "", "Flat per-adult amount.")
}

func (p *setPersonalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseMoney(p.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	tax, err := store.Rates.UpdatePersonal(strings.ToLower(p.canton), amount)
	var notFound *steuer.NotFoundError
	if errors.As(err, &notFound) {
		tax, err = store.Rates.CreatePersonal(steuer.PersonalTax{Canton: p.canton, Amount: amount})
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Set personal tax %s for canton %s\n", tax.Amount, tax.Canton)
	return subcommands.ExitSuccess
}
