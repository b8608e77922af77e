package rebalance

// ReinvestRow describes a single holding in a reinvestment report.
type ReinvestRow struct {
	Ticker      string
	WKN         string
	Price       Money
	Shares      int64   // units held before the purchase
	Delta       int64   // whole units to buy (or sell, when negative)
	GoalRatio   Percent // target share of the portfolio value
	ActualRatio Percent // share actually reached after the purchase
}

// ReinvestReport is the presentation-ready view of a purchase plan applied to
// a portfolio. It is consumed by the renderer package.
type ReinvestReport struct {
	Rows       []ReinvestRow
	TotalValue Money // portfolio value after the purchase
	Spent      Money // cash the plan spends
	Amount     Money // cash that was available
	Leftover   Money // cash remaining after the purchase
}

// NewReinvestReport builds the report for a plan computed over p with the
// given cash amount. Rows keep the portfolio's file order and include the
// holdings the resolver excluded, with a zero delta.
func NewReinvestReport(p *Portfolio, plan *ReinvestPlan, amount Money) *ReinvestReport {
	totalAfter := p.Value().Add(plan.Spent())

	ratioSum := Q(0)
	for _, h := range p.Holdings() {
		ratioSum = ratioSum.Add(h.Ratio())
	}

	report := &ReinvestReport{
		TotalValue: totalAfter,
		Spent:      plan.Spent(),
		Amount:     amount,
		Leftover:   amount.Sub(plan.Spent()),
	}
	for _, h := range p.Holdings() {
		delta := plan.Delta(h.WKN())
		value := h.Price().Mul(Q(h.Shares() + delta))

		var goal Percent
		if !ratioSum.IsZero() {
			goal = Percent(h.Ratio().Div(ratioSum).InexactFloat64() * 100)
		}

		report.Rows = append(report.Rows, ReinvestRow{
			Ticker:      h.Ticker(),
			WKN:         h.WKN(),
			Price:       h.Price(),
			Shares:      h.Shares(),
			Delta:       delta,
			GoalRatio:   goal,
			ActualRatio: NewPercent(value, totalAfter),
		})
	}
	return report
}
