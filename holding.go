package rebalance

import "slices"

// Holding represents one line item of a portfolio: an asset position with a
// price, a whole-unit position, and a target weight. It is an immutable
// input, never mutated by any computation in this package.
type Holding struct {
	wkn    string   // the unique identifier of the holding in the portfolio
	isin   string   // the reference number of the underlying security
	ticker string   // the human-friendly display symbol, opaque to computations
	price  Money    // price per unit, in the portfolio currency
	shares int64    // currently held whole units
	ratio  Quantity // target weight; weights are normalized, they need not sum to 1
}

func NewHolding(wkn, isin, ticker string, price Money, shares int64, ratio Quantity) Holding {
	return Holding{
		wkn:    wkn,
		isin:   isin,
		ticker: ticker,
		price:  price,
		shares: shares,
		ratio:  ratio,
	}
}

// WKN returns the unique identifier of the holding.
func (h Holding) WKN() string { return h.wkn }

// ISIN returns the reference number of the underlying security.
func (h Holding) ISIN() string { return h.isin }

// Ticker returns the display symbol of the holding.
func (h Holding) Ticker() string { return h.ticker }

// Price returns the price per unit.
func (h Holding) Price() Money { return h.price }

// Shares returns the number of whole units currently held.
func (h Holding) Shares() int64 { return h.shares }

// Ratio returns the target weight of the holding.
func (h Holding) Ratio() Quantity { return h.ratio }

// Value returns the market value of the position.
func (h Holding) Value() Money { return h.price.Mul(Q(h.shares)) }

// Portfolio is an ordered collection of holdings, all priced in the same
// currency. WKN uniqueness is a precondition checked by Validate.
type Portfolio struct {
	currency string
	holdings []Holding
}

func NewPortfolio(currency string, holdings ...Holding) *Portfolio {
	return &Portfolio{currency: currency, holdings: slices.Clone(holdings)}
}

// Currency returns the reporting currency of the portfolio.
func (p *Portfolio) Currency() string { return p.currency }

// Holdings returns a copy of the holdings, in file order.
func (p *Portfolio) Holdings() []Holding { return slices.Clone(p.holdings) }

// Len returns the number of holdings.
func (p *Portfolio) Len() int { return len(p.holdings) }

// Value returns the current market value of the whole portfolio.
func (p *Portfolio) Value() Money {
	total := M(0, p.currency)
	for _, h := range p.holdings {
		total = total.Add(h.Value())
	}
	return total
}

// Apply returns a new portfolio with the plan's unit deltas added to the
// positions. The receiver is left untouched.
func (p *Portfolio) Apply(plan *ReinvestPlan) *Portfolio {
	applied := make([]Holding, 0, len(p.holdings))
	for _, h := range p.holdings {
		h.shares += plan.Delta(h.wkn)
		applied = append(applied, h)
	}
	return &Portfolio{currency: p.currency, holdings: applied}
}
