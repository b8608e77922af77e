package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/rebalance/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, installed with COMP_INSTALL=1 prb.
	completion := &complete.Command{
		Flags: map[string]complete.Predictor{
			"portfolio-file": predict.Files("*.jsonl"),
			"currency":       predict.Set{"EUR", "USD"},
			"v":              predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"rebalance": {Flags: map[string]complete.Predictor{
				"amount":     predict.Something,
				"no-selling": predict.Nothing,
				"o":          predict.Files("*.jsonl"),
			}},
			"assist": {Flags: map[string]complete.Predictor{
				"amount":     predict.Something,
				"no-selling": predict.Nothing,
			}},
			"holdings": {},
			"fmt":      {},
			"update":   {},
			"topic":    {},
		},
	}
	completion.Complete("prb")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
