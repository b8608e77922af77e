package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/agent"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd holds the flags for the 'assist' subcommand.
type assistCmd struct {
	amount    float64
	noSelling bool
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "have the AI advisor review a reinvestment plan" }
func (*assistCmd) Usage() string {
	return `prb assist -amount <cash> [-no-selling]

  Computes the optimal reinvestment plan and asks the AI advisor to review
  it. Requires a Gemini API key in the environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 0, "Cash amount to reinvest")
	f.BoolVar(&c.noSelling, "no-selling", false, "Exclude holdings that would have to be sold")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	amount := rebalance.M(c.amount, p.Currency())
	plan, _, err := p.OptimalReinvest(amount, c.noSelling)
	if errors.Is(err, rebalance.ErrInfeasible) {
		fmt.Fprintf(os.Stderr, "No feasible plan: %v\n", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing the plan: %v\n", err)
		return subcommands.ExitFailure
	}

	report := renderer.ReinvestMarkdown(rebalance.NewReinvestReport(p, plan, amount))
	printMarkdown(report)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	advisor, err := agent.NewAdvisor(ctx, client)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting the advisor:", err)
		return subcommands.ExitFailure
	}

	review, err := advisor.Review(ctx, report)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Advisor failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(review)

	return subcommands.ExitSuccess
}
