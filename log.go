package rebalance

import "github.com/rs/zerolog"

func (e Exclusion) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("WKN", e.WKN).Str("Ticker", e.Ticker).Str("Target", e.Target.String()).Int("Pass", e.Pass)
}

func (p *ReinvestPlan) MarshalZerologObject(ev *zerolog.Event) {
	for wkn, delta := range p.deltas {
		ev.Int64(wkn, delta)
	}
	ev.Str("Spent", p.spent.String())
}
