package rebalance

import (
	"errors"
	"fmt"
	"testing"
)

func EUR(v float64) Money { return M(v, "EUR") }

func TestFractionalTargets(t *testing.T) {
	p := NewPortfolio("EUR",
		NewHolding("W1", "", "A", EUR(100), 0, Q(0.5)),
		NewHolding("W2", "", "B", EUR(50), 0, Q(0.5)),
	)

	selected, targets, excluded, err := FractionalTargets(p, EUR(1000), false)
	if err != nil {
		t.Fatalf("FractionalTargets() error = %v", err)
	}
	if len(excluded) != 0 {
		t.Errorf("len(excluded) = %d, want 0", len(excluded))
	}
	if len(selected) != 2 || len(targets) != 2 {
		t.Fatalf("len(selected), len(targets) = %d, %d, want 2, 2", len(selected), len(targets))
	}
	if !targets[0].Equal(Q(5)) {
		t.Errorf("targets[0] = %v, want 5", targets[0])
	}
	if !targets[1].Equal(Q(10)) {
		t.Errorf("targets[1] = %v, want 10", targets[1])
	}
}

func TestOptimalReinvest_TwoHoldings(t *testing.T) {
	p := NewPortfolio("EUR",
		NewHolding("W1", "", "A", EUR(100), 0, Q(0.5)),
		NewHolding("W2", "", "B", EUR(50), 0, Q(0.5)),
	)

	plan, excluded, err := p.OptimalReinvest(EUR(1000), false)
	if err != nil {
		t.Fatalf("OptimalReinvest() error = %v", err)
	}
	if len(excluded) != 0 {
		t.Errorf("len(excluded) = %d, want 0", len(excluded))
	}
	if got := plan.Delta("W1"); got != 5 {
		t.Errorf("Delta(W1) = %d, want 5", got)
	}
	if got := plan.Delta("W2"); got != 10 {
		t.Errorf("Delta(W2) = %d, want 10", got)
	}
	if !plan.Spent().Equal(EUR(1000)) {
		t.Errorf("Spent() = %v, want 1000", plan.Spent())
	}
}

func TestOptimalReinvest_PicksMaxAffordable(t *testing.T) {
	// With 999 in cash the exact targets (4.995 and 9.99 units) cannot both
	// round up: the best affordable combination is ceiling the first holding
	// and flooring the second, spending 950.
	p := NewPortfolio("EUR",
		NewHolding("W1", "", "A", EUR(100), 0, Q(0.5)),
		NewHolding("W2", "", "B", EUR(50), 0, Q(0.5)),
	)

	plan, _, err := p.OptimalReinvest(EUR(999), false)
	if err != nil {
		t.Fatalf("OptimalReinvest() error = %v", err)
	}
	if got := plan.Delta("W1"); got != 5 {
		t.Errorf("Delta(W1) = %d, want 5", got)
	}
	if got := plan.Delta("W2"); got != 9 {
		t.Errorf("Delta(W2) = %d, want 9", got)
	}
	if !plan.Spent().Equal(EUR(950)) {
		t.Errorf("Spent() = %v, want 950", plan.Spent())
	}
}

func TestSearchRounding_Optimality(t *testing.T) {
	// Cross-check the search against an independent enumeration of all
	// ceil/floor choices.
	holdings := []Holding{
		NewHolding("W1", "", "A", EUR(37), 2, Q(0.2)),
		NewHolding("W2", "", "B", EUR(113), 1, Q(0.5)),
		NewHolding("W3", "", "C", EUR(59), 0, Q(0.3)),
	}
	targets := []Quantity{Q(3.21), Q(1.87), Q(4.42)}
	amount := EUR(600)

	plan, err := SearchRounding(holdings, targets, amount)
	if err != nil {
		t.Fatalf("SearchRounding() error = %v", err)
	}
	if plan.Spent().GreaterThan(amount) {
		t.Errorf("Spent() = %v exceeds the amount %v", plan.Spent(), amount)
	}

	var maxCost Money
	var enumerate func(k int, cost Money)
	enumerate = func(k int, cost Money) {
		if k == len(holdings) {
			if !cost.GreaterThan(amount) && cost.GreaterThan(maxCost) {
				maxCost = cost
			}
			return
		}
		enumerate(k+1, cost.Add(holdings[k].Price().Mul(targets[k].Floor())))
		enumerate(k+1, cost.Add(holdings[k].Price().Mul(targets[k].Ceil())))
	}
	enumerate(0, EUR(0))

	if !plan.Spent().Equal(maxCost) {
		t.Errorf("Spent() = %v, want the enumerated maximum %v", plan.Spent(), maxCost)
	}
}

func TestSearchRounding_TieBreak(t *testing.T) {
	// Both single-ceil combinations cost 50; the first encountered in
	// ascending bit order rounds up the last holding.
	holdings := []Holding{
		NewHolding("W1", "", "A", EUR(50), 0, Q(0.5)),
		NewHolding("W2", "", "B", EUR(50), 0, Q(0.5)),
	}
	targets := []Quantity{Q(0.5), Q(0.5)}

	plan, err := SearchRounding(holdings, targets, EUR(60))
	if err != nil {
		t.Fatalf("SearchRounding() error = %v", err)
	}
	if !plan.Spent().Equal(EUR(50)) {
		t.Errorf("Spent() = %v, want 50", plan.Spent())
	}
	if got := plan.Delta("W1"); got != 0 {
		t.Errorf("Delta(W1) = %d, want 0", got)
	}
	if got := plan.Delta("W2"); got != 1 {
		t.Errorf("Delta(W2) = %d, want 1", got)
	}
}

func TestOptimalReinvest_ZeroRatioNoSelling(t *testing.T) {
	// A holding with a zero target ratio and no selling allowed is excluded
	// on the first pass; the search over an empty selection trivially spends
	// nothing.
	p := NewPortfolio("EUR", NewHolding("W1", "", "A", EUR(100), 3, Q(0)))

	plan, excluded, err := p.OptimalReinvest(EUR(500), true)
	if err != nil {
		t.Fatalf("OptimalReinvest() error = %v", err)
	}
	if len(excluded) != 1 || excluded[0].WKN != "W1" || excluded[0].Pass != 1 {
		t.Errorf("excluded = %+v, want W1 on pass 1", excluded)
	}
	if got := plan.Delta("W1"); got != 0 {
		t.Errorf("Delta(W1) = %d, want 0", got)
	}
	if !plan.Spent().IsZero() {
		t.Errorf("Spent() = %v, want 0", plan.Spent())
	}
}

func TestOptimalReinvest_DegenerateRatios(t *testing.T) {
	p := NewPortfolio("EUR", NewHolding("W1", "", "A", EUR(100), 3, Q(0)))

	_, _, err := p.OptimalReinvest(EUR(500), false)
	if !errors.Is(err, ErrDegenerateRatios) {
		t.Errorf("OptimalReinvest() error = %v, want ErrDegenerateRatios", err)
	}
}

func TestFractionalTargets_ExclusionConverges(t *testing.T) {
	// A is heavily overweight: reaching its 10% target would require selling
	// 89 units. With selling disallowed it is dropped on the first pass and
	// the second pass converges on B alone.
	p := NewPortfolio("EUR",
		NewHolding("W1", "", "A", EUR(10), 100, Q(0.1)),
		NewHolding("W2", "", "B", EUR(10), 0, Q(0.9)),
	)

	selected, targets, excluded, err := FractionalTargets(p, EUR(100), true)
	if err != nil {
		t.Fatalf("FractionalTargets() error = %v", err)
	}
	if len(selected) != 1 || selected[0].WKN() != "W2" {
		t.Fatalf("selected = %v, want [W2]", selected)
	}
	if !targets[0].Equal(Q(10)) {
		t.Errorf("targets[0] = %v, want 10", targets[0])
	}
	if len(excluded) != 1 || excluded[0].WKN != "W1" || excluded[0].Pass != 1 {
		t.Errorf("excluded = %+v, want W1 on pass 1", excluded)
	}
	if !excluded[0].Target.IsNegative() {
		t.Errorf("excluded target = %v, want negative", excluded[0].Target)
	}
}

func TestOptimalReinvest_NoSellingInvariant(t *testing.T) {
	p := NewPortfolio("EUR",
		NewHolding("W1", "", "A", EUR(10), 100, Q(0.1)),
		NewHolding("W2", "", "B", EUR(10), 0, Q(0.6)),
		NewHolding("W3", "", "C", EUR(25), 1, Q(0.3)),
	)

	plan, _, err := p.OptimalReinvest(EUR(100), true)
	if err != nil {
		t.Fatalf("OptimalReinvest() error = %v", err)
	}
	for wkn, delta := range plan.Deltas() {
		if delta < 0 {
			t.Errorf("Delta(%s) = %d, want >= 0", wkn, delta)
		}
	}
	if plan.Spent().GreaterThan(EUR(100)) {
		t.Errorf("Spent() = %v exceeds the amount", plan.Spent())
	}
}

func TestMonotoneExclusion(t *testing.T) {
	// Exclusion passes never decrease, and every holding is either selected
	// or excluded, never both.
	p := NewPortfolio("EUR",
		NewHolding("W1", "", "A", EUR(10), 200, Q(0.05)),
		NewHolding("W2", "", "B", EUR(10), 50, Q(0.15)),
		NewHolding("W3", "", "C", EUR(10), 0, Q(0.5)),
		NewHolding("W4", "", "D", EUR(10), 0, Q(0.3)),
	)

	selected, _, excluded, err := FractionalTargets(p, EUR(100), true)
	if err != nil {
		t.Fatalf("FractionalTargets() error = %v", err)
	}
	if len(selected)+len(excluded) != p.Len() {
		t.Errorf("selected %d + excluded %d != %d holdings", len(selected), len(excluded), p.Len())
	}
	for i := 1; i < len(excluded); i++ {
		if excluded[i].Pass < excluded[i-1].Pass {
			t.Errorf("exclusion passes out of order: %+v", excluded)
		}
	}
}

func TestOptimalReinvest_Idempotent(t *testing.T) {
	p := NewPortfolio("EUR",
		NewHolding("W1", "", "A", EUR(37), 2, Q(0.2)),
		NewHolding("W2", "", "B", EUR(113), 1, Q(0.5)),
		NewHolding("W3", "", "C", EUR(59), 0, Q(0.3)),
	)

	first, _, err := p.OptimalReinvest(EUR(600), true)
	if err != nil {
		t.Fatalf("OptimalReinvest() error = %v", err)
	}
	second, _, err := p.OptimalReinvest(EUR(600), true)
	if err != nil {
		t.Fatalf("OptimalReinvest() error = %v", err)
	}

	if !first.Spent().Equal(second.Spent()) {
		t.Errorf("Spent() differs between runs: %v vs %v", first.Spent(), second.Spent())
	}
	firstDeltas, secondDeltas := first.Deltas(), second.Deltas()
	if len(firstDeltas) != len(secondDeltas) {
		t.Fatalf("Deltas() sizes differ: %d vs %d", len(firstDeltas), len(secondDeltas))
	}
	for wkn, delta := range firstDeltas {
		if secondDeltas[wkn] != delta {
			t.Errorf("Delta(%s) differs between runs: %d vs %d", wkn, delta, secondDeltas[wkn])
		}
	}
}

func TestSearchRounding_FloorBoundary(t *testing.T) {
	// The cheapest holding costs more than the cash, but its floor-rounded
	// delta is zero: the all-floor combination spends nothing and a
	// zero-purchase plan is returned, not ErrInfeasible.
	holdings := []Holding{NewHolding("W1", "", "A", EUR(100), 0, Q(1))}
	targets := []Quantity{Q(0.3)}

	plan, err := SearchRounding(holdings, targets, EUR(30))
	if err != nil {
		t.Fatalf("SearchRounding() error = %v", err)
	}
	if got := plan.Delta("W1"); got != 0 {
		t.Errorf("Delta(W1) = %d, want 0", got)
	}
	if !plan.Spent().IsZero() {
		t.Errorf("Spent() = %v, want 0", plan.Spent())
	}
}

func TestSearchRounding_Infeasible(t *testing.T) {
	// With a negative cash amount even the zero-cost all-floor combination
	// exceeds the budget.
	holdings := []Holding{NewHolding("W1", "", "A", EUR(100), 0, Q(1))}
	targets := []Quantity{Q(0.3)}

	_, err := SearchRounding(holdings, targets, EUR(-5))
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("SearchRounding() error = %v, want ErrInfeasible", err)
	}
}

func TestSearchRounding_TooManyHoldings(t *testing.T) {
	n := MaxSearchHoldings + 1
	holdings := make([]Holding, 0, n)
	targets := make([]Quantity, 0, n)
	for i := 0; i < n; i++ {
		holdings = append(holdings, NewHolding(fmt.Sprintf("W%d", i), "", "", EUR(10), 0, Q(1)))
		targets = append(targets, Q(1.5))
	}

	_, err := SearchRounding(holdings, targets, EUR(1000))
	if !errors.Is(err, ErrTooManyHoldings) {
		t.Errorf("SearchRounding() error = %v, want ErrTooManyHoldings", err)
	}
}

func TestOptimalReinvest_EmptyPortfolio(t *testing.T) {
	p := NewPortfolio("EUR")

	plan, excluded, err := p.OptimalReinvest(EUR(100), true)
	if err != nil {
		t.Fatalf("OptimalReinvest() error = %v", err)
	}
	if len(excluded) != 0 {
		t.Errorf("len(excluded) = %d, want 0", len(excluded))
	}
	if !plan.Spent().IsZero() {
		t.Errorf("Spent() = %v, want 0", plan.Spent())
	}
}
