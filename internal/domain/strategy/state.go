package strategy

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrategyState mutable state exclusively owned by one strategy instance.
// Only the Executor mutates it; callers serialize access.
type StrategyState struct {
	positions  map[string]decimal.Decimal // symbol -> signed net position
	lastUpdate time.Time
	pnl        decimal.Decimal // cumulative realized PnL
}

func newStrategyState(now time.Time) *StrategyState {
	return &StrategyState{
		positions:  make(map[string]decimal.Decimal),
		lastUpdate: now,
		pnl:        decimal.Zero,
	}
}

func (s *StrategyState) position(symbol string) decimal.Decimal {
	if qty, ok := s.positions[symbol]; ok {
		return qty
	}
	return decimal.Zero
}

// commit applies an accepted trade; position and pnl always move together
func (s *StrategyState) commit(symbol string, position, pnl decimal.Decimal, at time.Time) {
	s.positions[symbol] = position
	s.pnl = s.pnl.Add(pnl)
	s.lastUpdate = at
}

func (s *StrategyState) snapshot() StateSnapshot {
	positions := make(map[string]float64, len(s.positions))
	for symbol, qty := range s.positions {
		positions[symbol] = qty.InexactFloat64()
	}

	return StateSnapshot{
		Positions:  positions,
		LastUpdate: s.lastUpdate,
		PnL:        s.pnl.InexactFloat64(),
	}
}

// StateSnapshot detached copy of StrategyState for reporting
type StateSnapshot struct {
	Positions  map[string]float64 `json:"positions"`
	LastUpdate time.Time          `json:"lastUpdate"`
	PnL        float64            `json:"pnl"`
}

// Position net position of a symbol, zero when unknown
func (s StateSnapshot) Position(symbol string) float64 {
	return s.Positions[symbol]
}
