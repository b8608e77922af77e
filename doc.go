// Package rebalance computes how to allocate a fixed cash amount across the
// holdings of a portfolio so that the post-purchase allocation best approaches
// a set of target ratios, under the constraint that only whole units can be
// bought and the total spent cannot exceed the available cash.
//
// The computation runs in two sequential stages:
//   - FractionalTargets computes, for each holding, the ideal real-valued
//     number of additional units to reach its target ratio of the total
//     portfolio value. When selling is disallowed it iterates, dropping
//     holdings that would require a sale, until the selection is stable.
//   - SearchRounding enumerates every way of rounding the fractional targets
//     up or down to whole units, keeps the combinations that fit in the cash
//     budget, and returns the one that spends the most.
//
// All arithmetic is exact decimal, so budget comparisons never suffer from
// binary floating point drift. The package performs no I/O and keeps no
// state: inputs are read-only and every result is freshly allocated.
//
// This package serves as the foundational logic for the `prb` command-line
// tool, which loads holdings from a JSONL file and renders the purchase plan.
package rebalance
