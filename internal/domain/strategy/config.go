package strategy

import (
	"fmt"
	"slices"
	"time"

	"dizzycode.xyz/strategy-runtime/internal/domain/market"
)

// StrategyConfig read-only configuration of one strategy instance.
// Zero values of MaxPositionSize, StopLoss and TakeProfit disable the check.
type StrategyConfig struct {
	Market          market.Market
	Symbols         []string
	Interval        time.Duration // polling interval of the driver
	MaxPositionSize float64       // max |net position| per symbol
	StopLoss        float64       // percent, e.g. 5 = close at -5%
	TakeProfit      float64       // percent, e.g. 10 = close at +10%
}

// Validate checks business rules of the config
func (c StrategyConfig) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("%w: at least one symbol is required", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Symbols))
	for _, symbol := range c.Symbols {
		if symbol == "" {
			return fmt.Errorf("%w: empty symbol", ErrInvalidConfig)
		}
		if _, dup := seen[symbol]; dup {
			return fmt.Errorf("%w: duplicate symbol %s", ErrInvalidConfig, symbol)
		}
		seen[symbol] = struct{}{}
	}

	if c.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative", ErrInvalidConfig)
	}
	if !finite(c.MaxPositionSize) || !finite(c.StopLoss) || !finite(c.TakeProfit) {
		return fmt.Errorf("%w: limits must be finite numbers", ErrInvalidConfig)
	}
	if c.MaxPositionSize < 0 {
		return fmt.Errorf("%w: max position size must not be negative", ErrInvalidConfig)
	}
	if c.StopLoss < 0 || c.TakeProfit < 0 {
		return fmt.Errorf("%w: stop loss and take profit must not be negative", ErrInvalidConfig)
	}

	return nil
}

// HasSymbol reports whether the symbol is configured
func (c StrategyConfig) HasSymbol(symbol string) bool {
	return slices.Contains(c.Symbols, symbol)
}

// clone detaches the symbol list from the caller
func (c StrategyConfig) clone() StrategyConfig {
	c.Symbols = slices.Clone(c.Symbols)
	return c
}
