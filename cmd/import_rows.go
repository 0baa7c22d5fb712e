package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type importRowsCmd struct {
	id   string
	file string
	mode string
}

func (*importRowsCmd) Name() string     { return "import" }
func (*importRowsCmd) Synopsis() string { return "bulk-import bracket rows into a table" }
func (*importRowsCmd) Usage() string {
	return `sts import -id <table-id> -file <rows.json> [-mode <replace|merge>]

  Imports bracket rows from a JSON array of objects with fields
  'threshold', 'base_amount', 'per_100_amount' and an optional 'note'.
  The import is all-or-nothing: a single malformed row rejects the whole
  file with per-row diagnostics and leaves the table untouched.

  In replace mode (the default) the file becomes the table's full row set;
  in merge mode rows are unioned by threshold, imported rows winning.
`
}

func (p *importRowsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the table to import into.")
	f.StringVar(&p.file, "file", "", "Path of the JSON file to import, '-' for stdin.")
	f.StringVar(&p.mode, "mode", "replace", "Import mode: replace or merge.")
}

func (p *importRowsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mode, err := steuer.ParseImportMode(p.mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	in := os.Stdin
	if p.file != "-" {
		in, err = os.Open(p.file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer in.Close()
	}
	rows, err := steuer.ParseBracketRows(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	table, err := store.Tariffs.ImportRows(p.id, rows, mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d rows (%s) into %s\n", len(rows), mode, table)
	return subcommands.ExitSuccess
}
