// Package cmd implements the CLI application to rebalance a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&rebalanceCmd{}, "rebalancing")
	c.Register(&assistCmd{}, "rebalancing")

	c.Register(&holdingsCmd{}, "portfolio")
	c.Register(&fmtCmd{}, "portfolio")
	c.Register(&updateCmd{}, "portfolio")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "holdings.jsonl", "Path to the holdings file (JSONL format)")
var defaultCurrency = flag.String("currency", "EUR", "Portfolio currency when the holdings file has no currency header")
var verbose = flag.Bool("v", false, "Log diagnostics, like holdings excluded by the resolver")

// logger returns the console logger, debug-enabled with -v.
func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// DecodePortfolio loads the holdings file from the app default location.
func DecodePortfolio() (*rebalance.Portfolio, error) {
	p, err := rebalance.LoadPortfolio(*portfolioFile, *defaultCurrency)
	if errors.Is(err, fs.ErrNotExist) {
		log := logger()
		log.Warn().Str("file", *portfolioFile).Msg("holdings file does not exist, using an empty portfolio instead")
		return rebalance.NewPortfolio(*defaultCurrency), nil
	}
	return p, err
}

// samePath reports whether the two paths name the same file once cleaned,
// so "./holdings.jsonl" and "holdings.jsonl" compare equal.
func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// printMarkdown renders markdown for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
