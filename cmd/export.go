package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type exportRowsCmd struct {
	id   string
	file string
}

func (*exportRowsCmd) Name() string     { return "export" }
func (*exportRowsCmd) Synopsis() string { return "export a table's bracket rows to the import format" }
func (*exportRowsCmd) Usage() string {
	return `sts export -id <table-id> [-file <rows.json>]

  Writes the table's bracket rows as a JSON array in the same format the
  import command reads, so a table can be round-tripped through a
  spreadsheet or another store.
`
}

func (p *exportRowsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the table to export.")
	f.StringVar(&p.file, "file", "-", "Destination file, '-' for stdout.")
}

func (p *exportRowsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	out := os.Stdout
	if p.file != "-" {
		out, err = os.Create(p.file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}
	if err := steuer.ExportBracketRows(out, table.Rows()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
