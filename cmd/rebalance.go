package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// rebalanceCmd holds the flags for the 'rebalance' subcommand.
type rebalanceCmd struct {
	amount     float64
	noSelling  bool
	outputFile string
}

func (*rebalanceCmd) Name() string { return "rebalance" }
func (*rebalanceCmd) Synopsis() string {
	return "compute the optimal whole-unit purchase plan for a cash amount"
}
func (*rebalanceCmd) Usage() string {
	return `prb rebalance -amount <cash> [-no-selling] [-o <file>]

  Computes how to spend the cash amount on the portfolio holdings so that the
  resulting allocation best approaches the target ratios, buying whole units
  only and never spending more than the amount. With -o, stores the holdings
  file with the purchased units applied, in canonical sorted form.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 0, "Cash amount to reinvest")
	f.BoolVar(&c.noSelling, "no-selling", false, "Exclude holdings that would have to be sold")
	f.StringVar(&c.outputFile, "o", "", "Store the holdings file with the plan applied")
}

func (c *rebalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	amount := rebalance.M(c.amount, p.Currency())
	plan, excluded, err := p.OptimalReinvest(amount, c.noSelling)

	log := logger()
	for _, e := range excluded {
		log.Debug().Object("holding", e).Msg("excluded from the purchase")
	}

	switch {
	case errors.Is(err, rebalance.ErrInfeasible):
		fmt.Fprintf(os.Stderr, "No feasible plan: %v\n", err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error computing the plan: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ReinvestMarkdown(rebalance.NewReinvestReport(p, plan, amount)))

	if c.outputFile != "" {
		if samePath(c.outputFile, *portfolioFile) {
			fmt.Fprintln(os.Stderr, "Cannot write to the input file, pick another output file")
			return subcommands.ExitUsageError
		}
		if err := rebalance.SavePortfolio(c.outputFile, p.Apply(plan)); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing holdings: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Stored rebalanced holdings in %q\n", c.outputFile)
	}

	return subcommands.ExitSuccess
}
