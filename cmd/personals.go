package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer/renderer"
	"github.com/google/subcommands"
)

type personalsCmd struct{}

func (*personalsCmd) Name() string     { return "personals" }
func (*personalsCmd) Synopsis() string { return "list the flat personal taxes" }
func (*personalsCmd) Usage() string {
	return `sts personals

  Lists the flat per-adult personal taxes by canton.
`
}

func (p *personalsCmd) SetFlags(f *flag.FlagSet) {}

func (p *personalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PersonalTaxes(store.Rates.Personals()))
	return subcommands.ExitSuccess
}
