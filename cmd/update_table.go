package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type updateTableCmd struct {
	id             string
	name           string
	description    string
	deduction      string
	clearDeduction bool
}

func (*updateTableCmd) Name() string     { return "update-table" }
func (*updateTableCmd) Synopsis() string { return "update the scalar fields of a bracket table" }
func (*updateTableCmd) Usage() string {
	return `sts update-table -id <id> [-name <name>] [-description <text>] [-deduction <amount> | -clear-deduction]

  Updates a table's name, description or per-child deduction. Rows are
  edited with set-bracket, rm-bracket or import.
`
}

func (p *updateTableCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the table to update.")
	f.StringVar(&p.name, "name", "", "New name.")
	f.StringVar(&p.description, "description", "", "New description.")
	f.StringVar(&p.deduction, "deduction", "", "New per-child deduction (federal table only).")
	f.BoolVar(&p.clearDeduction, "clear-deduction", false, "Remove the per-child deduction.")
}

func (p *updateTableCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var patch steuer.TablePatch
	if p.name != "" {
		patch.Name = &p.name
	}
	if p.description != "" {
		patch.Description = &p.description
	}
	patch.ClearChildDeduction = p.clearDeduction
	if p.deduction != "" {
		d, err := parseMoney(p.deduction)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		patch.ChildDeduction = &d
	}

	table, err := store.Tariffs.Update(p.id, patch)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated %s\n", table)
	return subcommands.ExitSuccess
}
