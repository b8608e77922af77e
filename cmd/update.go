package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

type updateCmd struct{}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "refresh holding prices from the latest TradeGate transactions"
}
func (*updateCmd) Usage() string {
	return `prb update

  Fetches the latest price exchanged on TradeGate for every holding with an
  ISIN and stores the refreshed holdings file. Holdings without an ISIN keep
  their current price.
`
}

func (*updateCmd) SetFlags(_ *flag.FlagSet) {}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	p, err := rebalance.LoadPortfolio(*portfolioFile, *defaultCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	log := logger()
	updated, skipped := p.UpdateIntraday()
	for _, err := range skipped {
		log.Warn().Err(err).Msg("price not refreshed")
	}

	if err := rebalance.SavePortfolio(*portfolioFile, updated); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	log.Info().Int("holdings", updated.Len()).Int("skipped", len(skipped)).Msg("prices refreshed")
	return subcommands.ExitSuccess
}
