package rebalance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file persists a portfolio as a JSONL holdings file, one holding per
// line, human-readable and git-friendly. An optional first line
// {"currency":"EUR"} sets the portfolio currency; every other line is a
// holding:
//
//	{"wkn":"A0RPWH","isin":"IE00B4L5Y983","ticker":"EUNL","price":85.43,"shares":10,"ratio":0.5}
//
// Encoding is canonical: the currency header first, then the holdings sorted
// by WKN, so a re-encoded file diffs cleanly.

// jholding is the object read from one line of the holdings file.
type jholding struct {
	Currency string          `json:"currency,omitempty"`
	WKN      string          `json:"wkn,omitempty"`
	ISIN     string          `json:"isin,omitempty"`
	Ticker   string          `json:"ticker,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Shares   int64           `json:"shares"`
	Ratio    decimal.Decimal `json:"ratio"`
}

// DecodePortfolio parses a JSONL holdings file. defaultCurrency applies when
// the file carries no currency header. The decoded portfolio is validated;
// malformed holdings surface as ErrInvalidHolding.
func DecodePortfolio(r io.Reader, defaultCurrency string) (*Portfolio, error) {
	currency := defaultCurrency
	var holdings []Holding

	scanner := bufio.NewScanner(r)
	line := 0
	first := true
	for scanner.Scan() {
		line++
		txt := strings.TrimSpace(scanner.Text())
		if txt == "" {
			continue
		}

		var jh jholding
		if err := json.Unmarshal([]byte(txt), &jh); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, txt, err)
		}

		if jh.WKN == "" && jh.Currency != "" {
			// currency header line, only valid before any holding: a later one
			// would leave the preceding holdings priced in another currency.
			if !first {
				return nil, fmt.Errorf("format error on line %d %q: the currency header must be the first line", line, txt)
			}
			currency = jh.Currency
			first = false
			continue
		}
		first = false

		holdings = append(holdings, NewHolding(jh.WKN, jh.ISIN, jh.Ticker, M(jh.Price, currency), jh.Shares, Q(jh.Ratio)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	p := NewPortfolio(currency, holdings...)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePortfolio writes the portfolio in canonical JSONL form: the currency
// header first, then one holding per line sorted by WKN.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	var header jsonObjectWriter
	header.Append("currency", p.Currency())
	if err := writeLine(w, &header); err != nil {
		return err
	}

	holdings := p.Holdings()
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].WKN() < holdings[j].WKN() })

	for _, h := range holdings {
		var jw jsonObjectWriter
		jw.Append("wkn", h.WKN()).
			Optional("isin", h.ISIN()).
			Optional("ticker", h.Ticker()).
			Append("price", h.Price().value).
			Append("shares", h.Shares()).
			Append("ratio", h.Ratio())
		if err := writeLine(w, &jw); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, jw *jsonObjectWriter) error {
	b, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// LoadPortfolio reads and decodes the holdings file at filename.
func LoadPortfolio(filename, defaultCurrency string) (*Portfolio, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := DecodePortfolio(f, defaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("cannot decode holdings file %q: %w", filename, err)
	}
	return p, nil
}

// SavePortfolio encodes the portfolio into the file at filename in canonical
// form, replacing its previous content.
func SavePortfolio(filename string, p *Portfolio) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot write holdings file %q: %w", filename, err)
	}
	if err := EncodePortfolio(f, p); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode holdings file %q: %w", filename, err)
	}
	return f.Close()
}
