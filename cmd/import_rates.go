package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type importRatesCmd struct {
	file string
}

func (*importRatesCmd) Name() string     { return "import-rates" }
func (*importRatesCmd) Synopsis() string { return "bulk-import municipal rates" }
func (*importRatesCmd) Usage() string {
	return `sts import-rates -file <rates.json>

  Imports municipal rates from a JSON array of objects with fields
  'municipality', 'canton', 'base_rate' and optional church rates. Existing
  entries with the same (municipality, canton) key are replaced. The import
  is all-or-nothing with per-row diagnostics.
`
}

func (p *importRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "file", "", "Path of the JSON file to import, '-' for stdin.")
}

func (p *importRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := os.Stdin
	if p.file != "-" {
		var err error
		in, err = os.Open(p.file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer in.Close()
	}
	rates, err := steuer.ParseMunicipalRates(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.Rates.ImportMunicipal(rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d municipal rates\n", len(rates))
	return subcommands.ExitSuccess
}
