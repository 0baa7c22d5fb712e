package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/etnz/steuer/renderer"
	"github.com/google/subcommands"
)

type listCmd struct {
	canton  string
	scope   string
	federal bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list bracket tables" }
func (*listCmd) Usage() string {
	return `sts list [-canton <XX>] [-scope <income|wealth>] [-federal]

  Lists the bracket tables in the store, optionally filtered by canton,
  scope, or restricted to the federal family.
`
}

func (p *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.canton, "canton", "", "Only tables of this canton.")
	f.StringVar(&p.scope, "scope", "", "Only state tables of this scope: income or wealth.")
	f.BoolVar(&p.federal, "federal", false, "Only federal tables.")
}

func (p *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var filters []func(*steuer.BracketTable) bool
	if p.canton != "" {
		filters = append(filters, steuer.ByCanton(p.canton))
	}
	if p.scope != "" {
		scope, err := steuer.ParseScope(p.scope)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, steuer.ByScope(scope))
	}
	if p.federal {
		filters = append(filters, steuer.OnlyFederal())
	}

	printMarkdown(renderer.Tables(store.Tariffs.List(filters...)))
	return subcommands.ExitSuccess
}
