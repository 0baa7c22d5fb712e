package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/steuer/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Shell completion for subcommand names; must run before flag.Parse.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"store": predict.Files("*.jsonl"),
		},
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		completion.Sub[c.Name()] = &complete.Command{}
	})
	completion.Complete("sts")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
