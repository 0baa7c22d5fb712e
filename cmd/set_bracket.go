package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type setBracketCmd struct {
	id        string
	threshold string
	base      string
	per100    string
	note      string
}

func (*setBracketCmd) Name() string     { return "set-bracket" }
func (*setBracketCmd) Synopsis() string { return "add or replace one bracket row" }
func (*setBracketCmd) Usage() string {
	return `sts set-bracket -id <table-id> -threshold <amount> -base <amount> -per100 <amount> [-note <text>]

  Adds a bracket row to the table, or replaces the existing row with the
  same threshold.
`
}

func (p *setBracketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the table to edit.")
	f.StringVar(&p.threshold, "threshold", "", "Lower bound of the bracket.")
	f.StringVar(&p.base, "base", "", "Cumulative liability at the threshold.")
	f.StringVar(&p.per100, "per100", "", "Marginal amount per 100 above the threshold.")
	f.StringVar(&p.note, "note", "", "Free-form note on the row.")
}

func (p *setBracketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var row steuer.Bracket
	for _, field := range []struct {
		name  string
		value string
		dst   *steuer.Money
	}{
		{"threshold", p.threshold, &row.Threshold},
		{"base", p.base, &row.BaseAmount},
		{"per100", p.per100, &row.Per100Amount},
	} {
		if field.value == "" {
			fmt.Fprintf(os.Stderr, "missing required flag -%s\n", field.name)
			return subcommands.ExitUsageError
		}
		v, err := parseMoney(field.value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		*field.dst = v
	}
	row.Note = p.note

	table, err := store.Tariffs.Get(p.id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rows, err := table.UpsertRow(row)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := store.Tariffs.Update(p.id, steuer.TablePatch{Rows: rows}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Set bracket at %s in table %q\n", row.Threshold, p.id)
	return subcommands.ExitSuccess
}
