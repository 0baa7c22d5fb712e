package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type rmPersonalCmd struct {
	canton string
}

func (*rmPersonalCmd) Name() string     { return "rm-personal" }
func (*rmPersonalCmd) Synopsis() string { return "remove a canton's flat personal tax" }
func (*rmPersonalCmd) Usage() string {
	return `sts rm-personal -canton <XX>

  Removes the canton's flat personal tax from the store.
`
}

func (p *rmPersonalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.canton, "canton", "", "Canton abbreviation (e.g. ZH).")
}

func (p *rmPersonalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.Rates.DeletePersonal(strings.ToLower(p.canton)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed personal tax for canton %s\n", p.canton)
	return subcommands.ExitSuccess
}
