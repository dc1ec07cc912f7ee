package strategy

import "github.com/shopspring/decimal"

// CostBasis supplies the average entry price used by the stop-loss/take-profit check
type CostBasis interface {
	// AveragePrice returns the average entry of the open position, false when unknown
	AveragePrice(symbol string) (float64, bool)

	// Apply records an executed trade that moved the position from previous to next
	Apply(trade ExecutedTrade, previous, next float64)
}

// InertCostBasis never knows an average price, which keeps the
// stop-loss/take-profit check permanently disabled.
type InertCostBasis struct{}

func (InertCostBasis) AveragePrice(string) (float64, bool) { return 0, false }
func (InertCostBasis) Apply(ExecutedTrade, float64, float64) {}

// AverageCostBook tracks a volume-weighted average entry price per symbol.
//
// Rules (signed positions, long or short):
//   - opening or adding re-weights: avg = (avg*|prev| + price*qty) / |next|
//   - reducing keeps the average
//   - crossing through zero restarts the average at the fill price
//   - going flat forgets the symbol
type AverageCostBook struct {
	avg map[string]decimal.Decimal
}

// NewAverageCostBook creates an empty book
func NewAverageCostBook() *AverageCostBook {
	return &AverageCostBook{avg: make(map[string]decimal.Decimal)}
}

func (b *AverageCostBook) AveragePrice(symbol string) (float64, bool) {
	avg, ok := b.avg[symbol]
	if !ok {
		return 0, false
	}
	return avg.InexactFloat64(), true
}

func (b *AverageCostBook) Apply(trade ExecutedTrade, previous, next float64) {
	prev := decimal.NewFromFloat(previous)
	nxt := decimal.NewFromFloat(next)
	price := decimal.NewFromFloat(trade.Price)

	switch {
	case nxt.IsZero():
		delete(b.avg, trade.Symbol)

	case prev.IsZero() || prev.Sign() != nxt.Sign():
		b.avg[trade.Symbol] = price

	case nxt.Abs().GreaterThan(prev.Abs()):
		qty := nxt.Abs().Sub(prev.Abs())
		cost := b.avg[trade.Symbol].Mul(prev.Abs()).Add(price.Mul(qty))
		b.avg[trade.Symbol] = cost.Div(nxt.Abs())
	}
}
