package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer/renderer"
	"github.com/google/subcommands"
)

type showTableCmd struct {
	id string
}

func (*showTableCmd) Name() string     { return "show-table" }
func (*showTableCmd) Synopsis() string { return "show one bracket table with all its rows" }
func (*showTableCmd) Usage() string {
	return `sts show-table -id <id>

  Shows a bracket table's metadata and every bracket row.
`
}

func (p *showTableCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the table to show.")
}

func (p *showTableCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.Table(table))
	return subcommands.ExitSuccess
}
