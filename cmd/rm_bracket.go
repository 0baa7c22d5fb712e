package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type rmBracketCmd struct {
	id    string
	index int
}

func (*rmBracketCmd) Name() string     { return "rm-bracket" }
func (*rmBracketCmd) Synopsis() string { return "remove one bracket row by index" }
func (*rmBracketCmd) Usage() string {
	return `sts rm-bracket -id <table-id> -index <n>

  Removes the n-th bracket row (0-based, in threshold order) from the table.
  Use show-table to see the indices.
`
}

func (p *rmBracketCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the table to edit.")
	f.IntVar(&p.index, "index", -1, "0-based index of the row to remove.")
}

func (p *rmBracketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	table, err := store.Tariffs.Get(p.id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rows, err := table.RemoveRow(p.index)
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
	fmt.Printf("Removed bracket %d from table %q\n", p.index, p.id)
	return subcommands.ExitSuccess
}
