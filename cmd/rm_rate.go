package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type rmRateCmd struct {
	id string
}

func (*rmRateCmd) Name() string     { return "rm-rate" }
func (*rmRateCmd) Synopsis() string { return "remove a municipal multiplier rate" }
func (*rmRateCmd) Usage() string {
	return `sts rm-rate -id <rate-id>

  Removes a municipal rate from the store.
`
}

func (p *rmRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the rate to remove.")
}

func (p *rmRateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.Rates.DeleteMunicipal(p.id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed rate %q\n", p.id)
	return subcommands.ExitSuccess
}
