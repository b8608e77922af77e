package rebalance

import "fmt"

// Validate checks the preconditions of a single holding: a positive price, a
// non-negative position, and a non-negative target ratio. All failures are
// ErrInvalidHolding.
func (h Holding) Validate() error {
	if h.wkn == "" {
		return fmt.Errorf("%w: missing WKN", ErrInvalidHolding)
	}
	if !h.price.IsPositive() {
		return fmt.Errorf("%w %q: price must be positive, got %s", ErrInvalidHolding, h.wkn, h.price)
	}
	if h.shares < 0 {
		return fmt.Errorf("%w %q: shares must be non-negative, got %d", ErrInvalidHolding, h.wkn, h.shares)
	}
	if h.ratio.IsNegative() {
		return fmt.Errorf("%w %q: target ratio must be non-negative, got %s", ErrInvalidHolding, h.wkn, h.ratio)
	}
	return nil
}

// Validate checks every holding, the WKN uniqueness of the portfolio, and
// that every price is in the portfolio currency. A duplicate WKN would make
// the purchase plan silently ambiguous, and a mixed-currency portfolio has no
// meaningful total value, so both are rejected here.
func (p *Portfolio) Validate() error {
	seen := make(map[string]bool, len(p.holdings))
	for _, h := range p.holdings {
		if err := h.Validate(); err != nil {
			return err
		}
		if h.price.Currency() != p.currency {
			return fmt.Errorf("%w %q: price in %q, portfolio in %q", ErrInvalidHolding, h.wkn, h.price.Currency(), p.currency)
		}
		if seen[h.wkn] {
			return fmt.Errorf("%w: duplicate WKN %q", ErrInvalidHolding, h.wkn)
		}
		seen[h.wkn] = true
	}
	return nil
}
