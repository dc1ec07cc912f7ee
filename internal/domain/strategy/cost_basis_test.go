package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fill(action Action, symbol string, qty, price float64) ExecutedTrade {
	return ExecutedTrade{Action: action, Symbol: symbol, Quantity: qty, Price: price}
}

func TestAverageCostBook(t *testing.T) {
	type step struct {
		trade    ExecutedTrade
		previous float64
		next     float64
	}

	tests := []struct {
		name      string
		steps     []step
		expectAvg float64
		expectOK  bool
	}{
		{
			name:      "open long",
			steps:     []step{{fill(ActionBuy, "AAPL", 10, 100), 0, 10}},
			expectAvg: 100,
			expectOK:  true,
		},
		{
			name: "add to long re-weights",
			steps: []step{
				{fill(ActionBuy, "AAPL", 10, 100), 0, 10},
				{fill(ActionBuy, "AAPL", 10, 110), 10, 20},
			},
			expectAvg: 105,
			expectOK:  true,
		},
		{
			name: "reduce long keeps average",
			steps: []step{
				{fill(ActionBuy, "AAPL", 10, 100), 0, 10},
				{fill(ActionSell, "AAPL", 4, 150), 10, 6},
			},
			expectAvg: 100,
			expectOK:  true,
		},
		{
			name: "close forgets symbol",
			steps: []step{
				{fill(ActionBuy, "AAPL", 10, 100), 0, 10},
				{fill(ActionSell, "AAPL", 10, 90), 10, 0},
			},
			expectOK: false,
		},
		{
			name: "flip restarts at fill price",
			steps: []step{
				{fill(ActionBuy, "AAPL", 10, 100), 0, 10},
				{fill(ActionSell, "AAPL", 15, 120), 10, -5},
			},
			expectAvg: 120,
			expectOK:  true,
		},
		{
			name: "add to short re-weights",
			steps: []step{
				{fill(ActionSell, "AAPL", 10, 50), 0, -10},
				{fill(ActionSell, "AAPL", 30, 70), -10, -40},
			},
			expectAvg: 65,
			expectOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := NewAverageCostBook()
			for _, s := range tt.steps {
				book.Apply(s.trade, s.previous, s.next)
			}

			avg, ok := book.AveragePrice("AAPL")
			assert.Equal(t, tt.expectOK, ok)
			assert.InDelta(t, tt.expectAvg, avg, 1e-9)
		})
	}
}

func TestAverageCostBook_SymbolsAreIndependent(t *testing.T) {
	book := NewAverageCostBook()
	book.Apply(fill(ActionBuy, "AAPL", 1, 100), 0, 1)
	book.Apply(fill(ActionBuy, "MSFT", 1, 300), 0, 1)

	aapl, _ := book.AveragePrice("AAPL")
	msft, _ := book.AveragePrice("MSFT")
	_, ok := book.AveragePrice("TSLA")

	assert.Equal(t, 100.0, aapl)
	assert.Equal(t, 300.0, msft)
	assert.False(t, ok)
}

func TestInertCostBasis(t *testing.T) {
	var basis CostBasis = InertCostBasis{}
	basis.Apply(fill(ActionBuy, "AAPL", 10, 100), 0, 10)

	_, ok := basis.AveragePrice("AAPL")
	assert.False(t, ok)
}
