package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type fetchFederalCmd struct {
	url  string
	id   string
	name string
}

func (*fetchFederalCmd) Name() string     { return "fetch-federal" }
func (*fetchFederalCmd) Synopsis() string { return "fetch the federal tariff from the ESTV endpoint" }
func (*fetchFederalCmd) Usage() string {
	return `sts fetch-federal [-url <endpoint>] (-id <table-id> | -name <name>)

  Downloads the published federal income tariff and either replaces the
  rows of an existing table (-id) or creates a new federal table (-name).
  Responses are cached on disk for a day.
`
}

func (p *fetchFederalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.url, "url", steuer.DefaultFederalTariffURL, "Endpoint publishing the federal tariff.")
	f.StringVar(&p.id, "id", "", "Id of an existing federal table to refresh.")
	f.StringVar(&p.name, "name", "", "Name of a new federal table to create.")
}

func (p *fetchFederalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (p.id == "") == (p.name == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -id or -name is required")
		return subcommands.ExitUsageError
	}

	rows, deduction, err := steuer.FetchFederalTariff(p.url)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var table *steuer.BracketTable
	if p.id != "" {
		patch := steuer.TablePatch{Rows: rows}
		if deduction != nil {
			patch.ChildDeduction = deduction
		}
		table, err = store.Tariffs.Update(p.id, patch)
	} else {
		table, err = store.Tariffs.Create(steuer.TableSpec{
			Name:           p.name,
			Federal:        true,
			ChildDeduction: deduction,
			Rows:           rows,
		})
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Fetched %d rows into %s\n", len(rows), table)
	return subcommands.ExitSuccess
}
