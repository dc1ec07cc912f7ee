package strategy

import "time"

// Ports consumed by the execution pipeline. Implementations must be synchronous
// and free of side effects.

// MarketCalendar answers whether a symbol's market is open at an instant
type MarketCalendar interface {
	IsOpen(symbol string, at time.Time) bool
}

// PricingModel returns the non-negative slippage amount applied against the trader
type PricingModel interface {
	Spread(symbol string, quantity float64) float64
}

// PnLCalculator returns the realized PnL of a batch of executed trades
type PnLCalculator interface {
	CalculatePnL(trades []ExecutedTrade) float64
}
