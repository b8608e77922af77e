package rebalance

import (
	"errors"
	"fmt"
	"slices"
)

// MaxSearchHoldings bounds the exhaustive rounding search. The search
// enumerates 2^N combinations, which is exact but exponential; beyond this
// bound SearchRounding fails fast instead of hanging.
const MaxSearchHoldings = 24

var (
	// ErrInfeasible reports that no rounding combination fits in the cash budget.
	ErrInfeasible = errors.New("no affordable rounding combination")
	// ErrDegenerateRatios reports that every selected holding has a zero target
	// ratio, leaving the fractional targets undefined.
	ErrDegenerateRatios = errors.New("all selected holdings have a zero target ratio")
	// ErrTooManyHoldings reports that the selection exceeds MaxSearchHoldings.
	ErrTooManyHoldings = errors.New("too many holdings for the exhaustive rounding search")
	// ErrInvalidHolding reports a malformed holding in the input portfolio.
	ErrInvalidHolding = errors.New("invalid holding")
)

// Exclusion records a holding dropped by the fractional target resolver
// because buying it was not required (its fractional target was zero or
// negative) while selling was disallowed.
type Exclusion struct {
	WKN    string
	Ticker string
	Target Quantity // the fractional unit target that caused the drop
	Pass   int      // resolver pass on which the holding was dropped, 1-based
}

// ReinvestPlan is the result of the rounding search: a signed whole-unit
// delta per holding and the total cash it spends. It is constructed once and
// never mutated afterwards.
type ReinvestPlan struct {
	deltas map[string]int64
	spent  Money
}

// Delta returns the whole-unit purchase delta for the given WKN, zero for
// holdings absent from the plan.
func (p *ReinvestPlan) Delta(wkn string) int64 { return p.deltas[wkn] }

// Deltas returns a copy of the per-WKN unit deltas.
func (p *ReinvestPlan) Deltas() map[string]int64 {
	out := make(map[string]int64, len(p.deltas))
	for k, v := range p.deltas {
		out[k] = v
	}
	return out
}

// Spent returns the total cash the plan spends.
func (p *ReinvestPlan) Spent() Money { return p.spent }

// FractionalTargets computes the ideal real-valued number of additional units
// per holding so that each selected holding reaches its target share of the
// portfolio value after injecting amount.
//
// With noSelling false it returns all holdings and their fractional deltas,
// negative deltas meaning a sale. With noSelling true it repeats the
// computation, dropping every holding whose delta is zero or negative, until
// the selection is stable. The selection shrinks on every repeated pass, so
// the loop terminates after at most Len passes.
//
// The returned targets are parallel to the returned holdings. Dropped
// holdings are reported as Exclusions, in drop order.
func FractionalTargets(p *Portfolio, amount Money, noSelling bool) (selected []Holding, targets []Quantity, excluded []Exclusion, err error) {
	selected = p.Holdings()

	for pass := 1; ; pass++ {
		if len(selected) == 0 {
			return nil, nil, excluded, nil
		}

		current := M(0, p.currency)
		ratioSum := Q(0)
		for _, h := range selected {
			current = current.Add(h.Value())
			ratioSum = ratioSum.Add(h.ratio)
		}
		goal := current.Add(amount)

		if ratioSum.IsZero() {
			if !noSelling {
				return nil, nil, excluded, ErrDegenerateRatios
			}
			// None of the selected holdings requires a purchase.
			for _, h := range selected {
				excluded = append(excluded, Exclusion{WKN: h.wkn, Ticker: h.ticker, Pass: pass})
			}
			return nil, nil, excluded, nil
		}

		targets = make([]Quantity, 0, len(selected))
		for _, h := range selected {
			// ideal unit count = (ratio / ratioSum) * goal / price
			ideal := goal.Mul(h.ratio.Div(ratioSum)).DivPrice(h.price)
			targets = append(targets, ideal.Sub(Q(h.shares)))
		}

		if !noSelling {
			return selected, targets, excluded, nil
		}

		kept := make([]Holding, 0, len(selected))
		for i, h := range selected {
			if targets[i].IsPositive() {
				kept = append(kept, h)
				continue
			}
			excluded = append(excluded, Exclusion{WKN: h.wkn, Ticker: h.ticker, Target: targets[i], Pass: pass})
		}
		if len(kept) == len(selected) {
			return selected, targets, excluded, nil
		}
		selected = kept
	}
}

// SearchRounding enumerates every combination of rounding each fractional
// target up or down to a whole unit, discards combinations whose total cost
// exceeds amount (spending exactly amount is feasible), and returns the
// feasible combination that spends the most. When several combinations tie
// on cost, the first one encountered wins; any maximal combination is an
// acceptable answer.
//
// The enumeration walks the bit patterns of a counter in ascending order,
// the most significant of the n bits governing the first holding: a set bit
// rounds up, a cleared bit rounds down. The search is O(2^n * n) and fails
// with ErrTooManyHoldings when n exceeds MaxSearchHoldings, and with
// ErrInfeasible when no combination is affordable.
func SearchRounding(selected []Holding, targets []Quantity, amount Money) (*ReinvestPlan, error) {
	n := len(selected)
	if n != len(targets) {
		return nil, fmt.Errorf("mismatched inputs: %d holdings but %d fractional targets", n, len(targets))
	}
	if n > MaxSearchHoldings {
		return nil, fmt.Errorf("%w: %d selected, max %d", ErrTooManyHoldings, n, MaxSearchHoldings)
	}

	var (
		found      bool
		bestCost   Money
		bestDeltas []int64
	)
	deltas := make([]int64, n)
	for combi := 0; combi < 1<<n; combi++ {
		cost := M(0, amount.Currency())
		for k := 0; k < n; k++ {
			rounded := targets[k].Floor()
			if combi&(1<<(n-1-k)) != 0 {
				rounded = targets[k].Ceil()
			}
			deltas[k] = rounded.IntPart()
			cost = cost.Add(selected[k].price.Mul(rounded))
		}
		if cost.GreaterThan(amount) {
			continue
		}
		if !found || cost.GreaterThan(bestCost) {
			found = true
			bestCost = cost
			bestDeltas = slices.Clone(deltas)
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: within %s", ErrInfeasible, amount)
	}

	plan := &ReinvestPlan{deltas: make(map[string]int64, n), spent: bestCost}
	for k, h := range selected {
		plan.deltas[h.wkn] = bestDeltas[k]
	}
	return plan, nil
}

// OptimalReinvest validates the portfolio and runs the two stages: fractional
// target resolution followed by the exhaustive rounding search. It returns
// the spending-maximizing feasible plan together with the resolver's
// exclusion diagnostics. Calling it twice with the same inputs yields the
// same plan.
func (p *Portfolio) OptimalReinvest(amount Money, noSelling bool) (*ReinvestPlan, []Exclusion, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	selected, targets, excluded, err := FractionalTargets(p, amount, noSelling)
	if err != nil {
		return nil, excluded, err
	}
	plan, err := SearchRounding(selected, targets, amount)
	if err != nil {
		return nil, excluded, err
	}
	return plan, excluded, nil
}
