package rebalance

import "fmt"

type Percent float64

// NewPercent returns the share of part in total, as a percentage.
func NewPercent(part, total Money) Percent {
	if total.IsZero() {
		return 0
	}
	return Percent(part.value.Div(total.value).InexactFloat64() * 100)
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
