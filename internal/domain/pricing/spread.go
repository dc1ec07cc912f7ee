package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SpreadModel linear slippage model
//
//	spread = base(symbol) + impact * quantity
//
// base(symbol) is the per-symbol override when present, otherwise the default base.
// All amounts are in price units and never negative.
type SpreadModel struct {
	base      decimal.Decimal
	impact    decimal.Decimal
	overrides map[string]decimal.Decimal
}

// NewSpreadModel creates a spread model (factory method)
func NewSpreadModel(base, impact float64, overrides map[string]float64) (*SpreadModel, error) {
	if !nonNegative(base) || !nonNegative(impact) {
		return nil, errors.New("spread base and impact must be finite and not negative")
	}

	m := &SpreadModel{
		base:      decimal.NewFromFloat(base),
		impact:    decimal.NewFromFloat(impact),
		overrides: make(map[string]decimal.Decimal, len(overrides)),
	}

	for symbol, amount := range overrides {
		if !nonNegative(amount) {
			return nil, fmt.Errorf("spread override for %s must be finite and not negative", symbol)
		}
		m.overrides[symbol] = decimal.NewFromFloat(amount)
	}

	return m, nil
}

// Spread returns the slippage for trading quantity units of symbol
func (m *SpreadModel) Spread(symbol string, quantity float64) float64 {
	base := m.base
	if override, ok := m.overrides[symbol]; ok {
		base = override
	}

	qty := decimal.NewFromFloat(quantity).Abs()
	return base.Add(m.impact.Mul(qty)).InexactFloat64()
}

// ParseOverrides parses "SYM:amount,SYM:amount"
func ParseOverrides(raw string) (map[string]float64, error) {
	overrides := make(map[string]float64)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		symbol, amount, ok := strings.Cut(pair, ":")
		symbol = strings.TrimSpace(symbol)
		if !ok || symbol == "" {
			return nil, fmt.Errorf("invalid spread override %q, want SYMBOL:amount", pair)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid spread override %q: %w", pair, err)
		}
		if !nonNegative(value) {
			return nil, fmt.Errorf("invalid spread override %q: must be a finite non-negative amount", pair)
		}
		overrides[symbol] = value
	}

	return overrides, nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// Overrides returns the configured per-symbol bases, sorted by symbol
func (m *SpreadModel) Overrides() []string {
	out := make([]string, 0, len(m.overrides))
	for symbol, amount := range m.overrides {
		out = append(out, symbol+":"+amount.String())
	}
	sort.Strings(out)
	return out
}
