package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/steuer/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	computeCmd
	model string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "compute a liability and have the AI assistant explain it"
}
func (*assistCmd) Usage() string {
	return `sts assist -canton <XX> -income <amount> [compute flags...] [question...]

  Computes the liability like the compute command, then asks Gemini to
  explain the breakdown in plain words, optionally answering a follow-up
  question given as positional arguments. Requires a configured Gemini API
  key (GEMINI_API_KEY).
`
}

func (p *assistCmd) SetFlags(f *flag.FlagSet) {
	p.computeCmd.SetFlags(f)
	f.StringVar(&p.model, "model", "gemini-2.5-flash", "Gemini model to use.")
}

func (p *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := p.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	store, err := LoadStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	breakdown, err := store.Calculator().Compute(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	question := "Explain this breakdown to the taxpayer in plain words."
	if f.NArg() > 0 {
		question = strings.Join(f.Args(), " ")
	}
	prompt := fmt.Sprintf(`You are a Swiss tax assistant. A progressive tariff engine computed the
following liability breakdown for a household. %s

%s`, question, renderer.Breakdown(in, breakdown))

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(resp.Text())
	return subcommands.ExitSuccess
}
