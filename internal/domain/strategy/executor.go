package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// Executor is the execution-and-risk module shared by all strategies.
// It owns StrategyState and is the only thing that mutates it:
//  1. ValidateAndExecuteTrade: market hours, slippage, position limit, bookkeeping
//  2. CheckStopLossAndTakeProfit: closing signal when the open position breaches a threshold
//
// Concrete strategies hold an Executor instead of inheriting from a base type.
// Not safe for concurrent use.
type Executor struct {
	config   StrategyConfig
	state    *StrategyState
	calendar MarketCalendar
	pricing  PricingModel
	pnl      PnLCalculator
	costs    CostBasis
	observer Observer
	logger   logger.Logger
	clock    func() time.Time
	newID    func() string
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithObserver replaces the default log observer
func WithObserver(o Observer) ExecutorOption {
	return func(e *Executor) { e.observer = o }
}

// WithCostBasis replaces the default AverageCostBook
func WithCostBasis(c CostBasis) ExecutorOption {
	return func(e *Executor) { e.costs = c }
}

// WithLogger sets the diagnostic logger
func WithLogger(l logger.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// WithClock overrides time.Now, used for state creation and risk-exit timestamps
func WithClock(clock func() time.Time) ExecutorOption {
	return func(e *Executor) { e.clock = clock }
}

// WithIDGenerator overrides the trade ID generator
func WithIDGenerator(gen func() string) ExecutorOption {
	return func(e *Executor) { e.newID = gen }
}

// NewExecutor creates an Executor with empty state
func NewExecutor(
	config StrategyConfig,
	calendar MarketCalendar,
	pricing PricingModel,
	pnl PnLCalculator,
	opts ...ExecutorOption,
) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if calendar == nil || pricing == nil || pnl == nil {
		return nil, errors.New("market calendar, pricing model and pnl calculator are required")
	}

	e := &Executor{
		config:   config.clone(),
		calendar: calendar,
		pricing:  pricing,
		pnl:      pnl,
		logger:   logger.NewNop(),
		clock:    time.Now,
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.costs == nil {
		e.costs = NewAverageCostBook()
	}
	if e.observer == nil {
		e.observer = NewLogObserver(e.logger)
	}

	e.state = newStrategyState(e.clock())

	return e, nil
}

// Config returns a copy of the strategy config
func (e *Executor) Config() StrategyConfig {
	return e.config.clone()
}

// State returns a detached snapshot of the strategy state
func (e *Executor) State() StateSnapshot {
	return e.state.snapshot()
}

// Position returns the signed net position of a symbol
func (e *Executor) Position(symbol string) float64 {
	return e.state.position(symbol).InexactFloat64()
}

// ValidateAndExecuteTrade runs a signal through the execution pipeline.
//
// On success the position and cumulative PnL are updated together and OnTrade
// is notified. On rejection a *TradeError is returned, OnError is notified and
// state is left untouched.
func (e *Executor) ValidateAndExecuteTrade(signal TradeSignal) (ExecutedTrade, error) {
	if err := signal.Validate(); err != nil {
		return ExecutedTrade{}, e.reject(signal, err, "")
	}

	symbol := signal.Symbol()
	if !e.config.HasSymbol(symbol) {
		return ExecutedTrade{}, e.reject(signal, ErrUnknownSymbol, "")
	}

	if !e.calendar.IsOpen(symbol, signal.Timestamp()) {
		return ExecutedTrade{}, e.reject(signal, ErrMarketClosed, signal.Timestamp().Format(time.RFC3339))
	}

	// Slippage always works against the trader
	spread := e.spread(symbol, signal.Quantity())
	price := decimal.NewFromFloat(signal.Price())
	quantity := decimal.NewFromFloat(signal.Quantity())

	var adjusted decimal.Decimal
	if signal.Action() == ActionBuy {
		adjusted = price.Add(spread)
	} else {
		adjusted = price.Sub(spread)
	}
	if !adjusted.IsPositive() {
		detail := fmt.Sprintf("price %v, spread %s", signal.Price(), spread)
		return ExecutedTrade{}, e.reject(signal, ErrNonPositiveFill, detail)
	}

	current := e.state.position(symbol)
	next := current.Add(quantity.Mul(decimal.NewFromFloat(signal.Action().Sign())))

	if e.config.MaxPositionSize > 0 && next.Abs().GreaterThan(decimal.NewFromFloat(e.config.MaxPositionSize)) {
		detail := fmt.Sprintf("position %s would become %s, limit %v", current, next, e.config.MaxPositionSize)
		return ExecutedTrade{}, e.reject(signal, ErrPositionLimitExceeded, detail)
	}

	trade := ExecutedTrade{
		ID:             e.newID(),
		Action:         signal.Action(),
		Symbol:         symbol,
		Quantity:       signal.Quantity(),
		RequestedPrice: signal.Price(),
		Spread:         spread.InexactFloat64(),
		Price:          adjusted.InexactFloat64(),
		Position:       next.InexactFloat64(),
		Timestamp:      signal.Timestamp(),
	}

	// Everything that can fail happens before the commit
	raw := e.pnl.CalculatePnL([]ExecutedTrade{trade})
	if !finite(raw) {
		return ExecutedTrade{}, e.reject(signal, ErrInvalidPnL, fmt.Sprintf("pnl %v", raw))
	}
	contribution := decimal.NewFromFloat(raw)
	trade.PnL = contribution.InexactFloat64()

	e.state.commit(symbol, next, contribution, signal.Timestamp())
	e.costs.Apply(trade, current.InexactFloat64(), trade.Position)

	e.notifyTrade(trade)

	return trade, nil
}

// CheckStopLossAndTakeProfit returns a closing sell signal for the full position
// when the percent move from the average entry breaches a configured threshold.
// Stop-loss wins when both would fire; at most one signal is produced.
func (e *Executor) CheckStopLossAndTakeProfit(symbol string, currentPrice float64) (TradeSignal, bool) {
	position := e.state.position(symbol)
	if position.IsZero() || !positive(currentPrice) {
		return TradeSignal{}, false
	}

	avg, ok := e.costs.AveragePrice(symbol)
	if !ok || avg <= 0 {
		return TradeSignal{}, false
	}

	avgPrice := decimal.NewFromFloat(avg)
	percent := decimal.NewFromFloat(currentPrice).Sub(avgPrice).Div(avgPrice).Mul(hundred)

	var reason string
	switch {
	case e.config.StopLoss > 0 && percent.LessThanOrEqual(decimal.NewFromFloat(-e.config.StopLoss)):
		reason = "stop_loss"
	case e.config.TakeProfit > 0 && percent.GreaterThanOrEqual(decimal.NewFromFloat(e.config.TakeProfit)):
		reason = "take_profit"
	default:
		return TradeSignal{}, false
	}

	e.logger.Info("Risk exit triggered", map[string]any{
		"reason":       reason,
		"symbol":       symbol,
		"position":     position.InexactFloat64(),
		"avgPrice":     avg,
		"currentPrice": currentPrice,
		"pnlPercent":   percent.InexactFloat64(),
	})

	return NewTradeSignal(ActionSell, symbol, position.Abs().InexactFloat64(), currentPrice, e.clock()), true
}

func (e *Executor) spread(symbol string, quantity float64) decimal.Decimal {
	raw := e.pricing.Spread(symbol, quantity)
	if raw < 0 || !finite(raw) {
		e.logger.Warn("Invalid spread clamped to zero", map[string]any{
			"symbol": symbol,
			"spread": raw,
		})
		return decimal.Zero
	}
	return decimal.NewFromFloat(raw)
}

func (e *Executor) reject(signal TradeSignal, err error, detail string) error {
	tradeErr := newTradeError(signal, err, detail)
	e.notifyError(tradeErr)
	return tradeErr
}

func (e *Executor) notifyTrade(trade ExecutedTrade) {
	defer e.recoverObserver("OnTrade")
	e.observer.OnTrade(trade)
}

func (e *Executor) notifyError(err error) {
	defer e.recoverObserver("OnError")
	e.observer.OnError(err)
}

// recoverObserver keeps a misbehaving observer from aborting the pipeline
func (e *Executor) recoverObserver(hook string) {
	if r := recover(); r != nil {
		e.logger.Error("Observer panicked", map[string]any{
			"hook":  hook,
			"panic": fmt.Sprint(r),
		})
	}
}
