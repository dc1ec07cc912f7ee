package pnl

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dizzycode.xyz/strategy-runtime/internal/domain/market"
	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
)

func trade(action strategy.Action, qty, price float64) strategy.ExecutedTrade {
	return strategy.ExecutedTrade{Action: action, Symbol: "ETH-USD", Quantity: qty, Price: price}
}

func TestCashFlowCalculator_CalculatePnL(t *testing.T) {
	calc := NewCashFlowCalculator()

	tests := []struct {
		name     string
		trades   []strategy.ExecutedTrade
		expected float64
	}{
		{"empty batch", nil, 0},
		{"buy is an outflow", []strategy.ExecutedTrade{trade(strategy.ActionBuy, 2, 2500)}, -5000},
		{"sell is an inflow", []strategy.ExecutedTrade{trade(strategy.ActionSell, 0.1, 0.3)}, 0.03},
		{
			name: "round trip realizes the difference",
			trades: []strategy.ExecutedTrade{
				trade(strategy.ActionBuy, 0.08, 2500),
				trade(strategy.ActionSell, 0.08, 2510),
			},
			expected: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, calc.CalculatePnL(tt.trades), 1e-9)
		})
	}
}

func TestCashFlowCalculator_IsAdditive(t *testing.T) {
	calc := NewCashFlowCalculator()
	trades := []strategy.ExecutedTrade{
		trade(strategy.ActionBuy, 3, 101.37),
		trade(strategy.ActionSell, 1, 99.12),
		trade(strategy.ActionBuy, 0.5, 100.01),
		trade(strategy.ActionSell, 2.5, 103.9),
	}

	sum := 0.0
	for _, tr := range trades {
		sum += calc.CalculatePnL([]strategy.ExecutedTrade{tr})
	}

	assert.InDelta(t, calc.CalculatePnL(trades), sum, 1e-9)
}

type noSpread struct{}

func (noSpread) Spread(string, float64) float64 { return 0 }

func TestCashFlowCalculator_OverflowIsRejectedByExecutor(t *testing.T) {
	calc := NewCashFlowCalculator()
	assert.True(t, math.IsInf(calc.CalculatePnL([]strategy.ExecutedTrade{trade(strategy.ActionBuy, 1e200, 1e200)}), -1))

	cfg := strategy.StrategyConfig{Market: market.Crypto, Symbols: []string{"ETH-USD"}}
	executor, err := strategy.NewExecutor(cfg, market.CryptoCalendar{}, noSpread{}, calc)
	require.NoError(t, err)

	signal := strategy.NewTradeSignal(strategy.ActionBuy, "ETH-USD", 1e200, 1e200, time.Now())
	_, err = executor.ValidateAndExecuteTrade(signal)

	assert.ErrorIs(t, err, strategy.ErrInvalidPnL)
	assert.Zero(t, executor.Position("ETH-USD"))
	assert.Zero(t, executor.State().PnL)
}
