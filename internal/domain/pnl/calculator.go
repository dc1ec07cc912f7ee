package pnl

import (
	"github.com/shopspring/decimal"

	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
)

// CashFlowCalculator realized PnL as signed cash flow
//
//	pnl = Σ sell price*qty - Σ buy price*qty
//
// Summing the result of single-trade batches equals the result of the whole
// batch, so cumulative PnL stays additive. Internally uses decimal.
type CashFlowCalculator struct{}

// NewCashFlowCalculator creates the calculator
func NewCashFlowCalculator() *CashFlowCalculator {
	return &CashFlowCalculator{}
}

// CalculatePnL returns the realized cash flow of a batch of executed trades
func (c *CashFlowCalculator) CalculatePnL(trades []strategy.ExecutedTrade) float64 {
	total := decimal.Zero
	for _, trade := range trades {
		notional := decimal.NewFromFloat(trade.Price).Mul(decimal.NewFromFloat(trade.Quantity))
		if trade.Action == strategy.ActionSell {
			total = total.Add(notional)
		} else {
			total = total.Sub(notional)
		}
	}
	return total.InexactFloat64()
}
