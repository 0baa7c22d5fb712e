package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/steuer"
	"github.com/google/subcommands"
)

type updateRateCmd struct {
	id        string
	base      string
	ref       string
	cath      string
	chrisCath string

	clearRef       bool
	clearCath      bool
	clearChrisCath bool
}

func (*updateRateCmd) Name() string     { return "update-rate" }
func (*updateRateCmd) Synopsis() string { return "update a municipal multiplier rate" }
func (*updateRateCmd) Usage() string {
	return `sts update-rate -id <rate-id> [-base <percent>] [-ref <percent> | -clear-ref] [-cath <percent> | -clear-cath] [-christian-cath <percent> | -clear-christian-cath]

  Updates a municipal rate. The clear flags reset a church rate to
  unpublished, distinct from setting it to zero.
`
}

func (p *updateRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the rate to update.")
	f.StringVar(&p.base, "base", "", "New municipal multiplier in percent.")
	f.StringVar(&p.ref, "ref", "", "New Reformed church rate in percent.")
	f.StringVar(&p.cath, "cath", "", "New Roman Catholic church rate in percent.")
	f.StringVar(&p.chrisCath, "christian-cath", "", "New Christian Catholic church rate in percent.")
	f.BoolVar(&p.clearRef, "clear-ref", false, "Unpublish the Reformed church rate.")
	f.BoolVar(&p.clearCath, "clear-cath", false, "Unpublish the Roman Catholic church rate.")
	f.BoolVar(&p.clearChrisCath, "clear-christian-cath", false, "Unpublish the Christian Catholic church rate.")
}

func (p *updateRateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	patch := steuer.MunicipalPatch{
		ClearRefRate:           p.clearRef,
		ClearCathRate:          p.clearCath,
		ClearChristianCathRate: p.clearChrisCath,
	}
	var err error
	if patch.BaseRate, err = parseOptionalPercent(p.base); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if patch.RefRate, err = parseOptionalPercent(p.ref); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if patch.CathRate, err = parseOptionalPercent(p.cath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if patch.ChristianCathRate, err = parseOptionalPercent(p.chrisCath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rate, err := store.Rates.UpdateMunicipal(p.id, patch)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveStore(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated rate for %s (%s)\n", rate.Municipality, rate.Canton)
	return subcommands.ExitSuccess
}
