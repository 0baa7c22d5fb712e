package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type deleteTableCmd struct {
	id string
}

func (*deleteTableCmd) Name() string     { return "delete-table" }
func (*deleteTableCmd) Synopsis() string { return "delete a bracket table" }
func (*deleteTableCmd) Usage() string {
	return `sts delete-table -id <id>

  Deletes a bracket table. Deletion is immediate and irreversible.
`
}

func (p *deleteTableCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the table to delete.")
}

func (p *deleteTableCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.Tariffs.Delete(p.id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted table %q\n", p.id)
	return subcommands.ExitSuccess
}
