package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type createTableCmd struct {
	name        string
	description string
	canton      string
	scope       string
	federal     bool
	deduction   string
}

func (*createTableCmd) Name() string     { return "create-table" }
func (*createTableCmd) Synopsis() string { return "create an empty bracket table" }
func (*createTableCmd) Usage() string {
	return `sts create-table -name <name> (-canton <XX> -scope <income|wealth> | -federal [-deduction <amount>]) [-description <text>]

  Creates an empty bracket table: either a state table bound to a canton and
  a scope, or the federal table with its optional per-child deduction.
  Fill it with set-bracket or import.
`
}

func (p *createTableCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Name of the table, unique per canton and scope.")
	f.StringVar(&p.description, "description", "", "Free-form description.")
	f.StringVar(&p.canton, "canton", "", "Canton abbreviation (e.g. ZH) for a state table.")
	f.StringVar(&p.scope, "scope", "income", "Scope of a state table: income or wealth.")
	f.BoolVar(&p.federal, "federal", false, "Create the federal table instead of a state table.")
	f.StringVar(&p.deduction, "deduction", "", "Per-child deduction of the federal table.")
}

func (p *createTableCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	spec := steuer.TableSpec{
		Name:        p.name,
		Description: p.description,
		Canton:      p.canton,
		Federal:     p.federal,
	}
	if !p.federal {
		scope, err := steuer.ParseScope(p.scope)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		spec.Scope = scope
	}
	if p.deduction != "" {
		d, err := parseMoney(p.deduction)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		spec.ChildDeduction = &d
	}

	table, err := store.Tariffs.Create(spec)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s with id %q\n", table, table.ID())
	return subcommands.ExitSuccess
}
