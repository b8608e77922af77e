package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/rebalance"
)

// HoldingsMarkdown renders the current portfolio as a markdown table.
func HoldingsMarkdown(p *rebalance.Portfolio) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	fmt.Fprintln(&b, "| Ticker | WKN | ISIN | Price | Shares | Value | Target Ratio |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")

	ratioSum := rebalance.Q(0)
	for _, h := range p.Holdings() {
		ratioSum = ratioSum.Add(h.Ratio())
	}

	for _, h := range p.Holdings() {
		var goal rebalance.Percent
		if !ratioSum.IsZero() {
			goal = rebalance.Percent(h.Ratio().Div(ratioSum).InexactFloat64() * 100)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s | %s |\n",
			h.Ticker(),
			h.WKN(),
			h.ISIN(),
			h.Price(),
			h.Shares(),
			h.Value(),
			goal,
		)
	}
	fmt.Fprintf(&b, "\nTotal value: %s\n", p.Value())
	return b.String()
}
