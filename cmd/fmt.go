package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the holdings file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `prb fmt

  Validates and formats the holdings file. This command reads all holdings,
  validates them, and writes them back in canonical JSONL form: the currency
  header first, then the holdings sorted by WKN.
`
}

func (*fmtCmd) SetFlags(_ *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := rebalance.LoadPortfolio(*portfolioFile, *defaultCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := rebalance.SavePortfolio(*portfolioFile, p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %q.\n", *portfolioFile)
	return subcommands.ExitSuccess
}
