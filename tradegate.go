package rebalance

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Intraday price refresh from the latest transactions on TradeGate. Prices
// come back in EUR; for USD portfolios they are converted with the latest
// EUR/USD rate.

func tradegateLatestEURperUSD(client *http.Client) (float64, error) {
	// this is not tradegate ;-)
	addr := "https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument?instrumentId=349938&series=intraday&type=mini"
	var jobj any
	err := jwget(client, addr, &jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error in wget %q: %w", "EUR/USD", err)
	}
	path := "$.series.intraday.data[-1:][1]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %q %w", "EUR/USD", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing %q: %q %s %v", "EUR/USD", path, "not a float", jval)
	}
	return val, nil
}

// tradegateLatest returns the last price exchanged on TradeGate for the given
// ISIN, in EUR.
func tradegateLatest(client *http.Client, name, isin string) (float64, error) {
	base := "https://www.tradegate.de/refresh.php?isin="
	addr := base + isin

	var jobj map[string]any

	err := jwget(client, addr, &jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error retrieving %q: %w", name, err)
	}
	// last is the last transaction, moves slower than the bid, but the bid can be 0.
	jval := jobj["last"] // or bid
	if s, ok := jval.(string); ok && s == "./." {
		// trade gate shows an empty last this way, use the bid instead
		jval = jobj["bid"]
	}
	val, ok := jval.(float64)
	if !ok {
		// sometimes, this weird API returns the value as a string
		sval, ok := jval.(string)
		if !ok {
			return math.NaN(), fmt.Errorf("cannot read value from %q: doesn't have a value and neither a float or string", name)
		}
		sval = strings.ReplaceAll(sval, ",", ".")
		sval = strings.ReplaceAll(sval, " ", "")
		val, err = strconv.ParseFloat(sval, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("cannot read value from %q: value is an invalid string %q: %w", name, sval, err)
		}
	}
	if val == 0 {
		// sometimes the bid is empty and returns 0
		return math.NaN(), fmt.Errorf("empty bid for %s no value to return: bidsize=%v", name, jobj["bidsize"])
	}
	return val, nil
}

// UpdateIntraday returns a copy of p with each holding's price refreshed from
// the latest TradeGate transaction for its ISIN. Holdings without an ISIN, or
// whose fetch fails, keep their current price and are reported in skipped.
// Only EUR and USD portfolios can be refreshed.
func (p *Portfolio) UpdateIntraday() (updated *Portfolio, skipped []error) {
	client := daily()

	rate := 1.0 // EUR per EUR
	switch p.currency {
	case "EUR":
	case "USD":
		eurPerUSD, err := tradegateLatestEURperUSD(client)
		if err != nil {
			return p, []error{fmt.Errorf("cannot refresh USD prices: %w", err)}
		}
		rate = eurPerUSD
	default:
		return p, []error{fmt.Errorf("cannot refresh prices in %q: only EUR and USD are supported", p.currency)}
	}

	holdings := make([]Holding, 0, len(p.holdings))
	for _, h := range p.holdings {
		if h.isin == "" {
			skipped = append(skipped, fmt.Errorf("holding %q has no ISIN", h.wkn))
			holdings = append(holdings, h)
			continue
		}
		eur, err := tradegateLatest(client, h.ticker, h.isin)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("holding %q: %w", h.wkn, err))
			holdings = append(holdings, h)
			continue
		}
		h.price = M(eur/rate, p.currency)
		holdings = append(holdings, h)
	}
	return &Portfolio{currency: p.currency, holdings: holdings}, skipped
}
