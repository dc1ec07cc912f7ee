package sma

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
)

// Name strategy identifier
const Name = "sma_crossover"

// DefaultTradeQuantity fixed reference quantity of every crossover signal
const DefaultTradeQuantity = 100

// Config moving-average parameters
type Config struct {
	ShortPeriod   int     // bars in the short SMA
	LongPeriod    int     // bars in the long SMA
	TradeQuantity float64 // quantity of every crossover signal, 0 = DefaultTradeQuantity
	HistoryLimit  int     // max prices kept per symbol, 0 = unlimited; never below LongPeriod
}

// Validate checks the periods
func (c Config) Validate() error {
	if c.ShortPeriod <= 0 || c.LongPeriod <= 0 {
		return fmt.Errorf("%w: sma periods must be positive", strategy.ErrInvalidConfig)
	}
	if c.ShortPeriod >= c.LongPeriod {
		return fmt.Errorf("%w: short period %d must be less than long period %d",
			strategy.ErrInvalidConfig, c.ShortPeriod, c.LongPeriod)
	}
	if math.IsNaN(c.TradeQuantity) || math.IsInf(c.TradeQuantity, 0) {
		return fmt.Errorf("%w: trade quantity must be a finite number", strategy.ErrInvalidConfig)
	}
	if c.TradeQuantity < 0 || c.HistoryLimit < 0 {
		return fmt.Errorf("%w: trade quantity and history limit must not be negative", strategy.ErrInvalidConfig)
	}
	return nil
}

// Strategy moving-average crossover.
//
// Golden cross (short SMA above long SMA) emits a buy, death cross a sell.
// Risk exits from the executor are appended after the crossover signal.
type Strategy struct {
	config    Config
	executor  *strategy.Executor
	histories map[string][]float64
}

var _ strategy.Strategy[[]strategy.PriceObservation] = (*Strategy)(nil)

// New creates the strategy around an executor that owns positions and PnL
func New(config Config, executor *strategy.Executor) (*Strategy, error) {
	if executor == nil {
		return nil, errors.New("executor is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.TradeQuantity == 0 {
		config.TradeQuantity = DefaultTradeQuantity
	}
	if config.HistoryLimit > 0 && config.HistoryLimit < config.LongPeriod {
		config.HistoryLimit = config.LongPeriod
	}

	s := &Strategy{config: config, executor: executor}
	s.reset()

	return s, nil
}

func (s *Strategy) Name() string {
	return Name
}

// Executor the execution-and-risk module the strategy trades through
func (s *Strategy) Executor() *strategy.Executor {
	return s.executor
}

// Initialize empties the price history of every configured symbol
func (s *Strategy) Initialize() error {
	s.reset()
	return nil
}

// Train appends observations in arrival order.
// The batch is validated first; a bad observation rejects the whole batch.
func (s *Strategy) Train(historicalData []strategy.PriceObservation) error {
	for i, obs := range historicalData {
		if err := s.validateObservation(obs); err != nil {
			return fmt.Errorf("observation %d: %w", i, err)
		}
	}

	for _, obs := range historicalData {
		history := append(s.histories[obs.Symbol], obs.Price)
		if limit := s.config.HistoryLimit; limit > 0 && len(history) > limit {
			history = append(history[:0:0], history[len(history)-limit:]...)
		}
		s.histories[obs.Symbol] = history
	}

	return nil
}

// Predict evaluates every configured symbol in config order.
// Symbols with fewer than LongPeriod prices are skipped.
func (s *Strategy) Predict(timestamp time.Time) ([]strategy.TradeSignal, error) {
	var signals []strategy.TradeSignal

	for _, symbol := range s.executor.Config().Symbols {
		history := s.histories[symbol]
		if len(history) < s.config.LongPeriod {
			continue
		}

		shortSMA := mean(history[len(history)-s.config.ShortPeriod:])
		longSMA := mean(history[len(history)-s.config.LongPeriod:])
		currentPrice := history[len(history)-1]

		switch shortSMA.Cmp(longSMA) {
		case 1: // golden cross
			signals = append(signals, strategy.NewTradeSignal(
				strategy.ActionBuy, symbol, s.config.TradeQuantity, currentPrice, timestamp))
		case -1: // death cross
			signals = append(signals, strategy.NewTradeSignal(
				strategy.ActionSell, symbol, s.config.TradeQuantity, currentPrice, timestamp))
		}

		if exit, ok := s.executor.CheckStopLossAndTakeProfit(symbol, currentPrice); ok {
			signals = append(signals, exit)
		}
	}

	return signals, nil
}

// History copy of the prices kept for a symbol
func (s *Strategy) History(symbol string) []float64 {
	return append([]float64(nil), s.histories[symbol]...)
}

func (s *Strategy) reset() {
	symbols := s.executor.Config().Symbols
	s.histories = make(map[string][]float64, len(symbols))
	for _, symbol := range symbols {
		s.histories[symbol] = []float64{}
	}
}

func (s *Strategy) validateObservation(obs strategy.PriceObservation) error {
	if _, ok := s.histories[obs.Symbol]; !ok {
		return fmt.Errorf("%w: symbol %q not configured", strategy.ErrInvalidObservation, obs.Symbol)
	}
	if obs.Price <= 0 || math.IsInf(obs.Price, 0) || math.IsNaN(obs.Price) {
		return fmt.Errorf("%w: price must be positive, got %v", strategy.ErrInvalidObservation, obs.Price)
	}
	return nil
}

func mean(prices []float64) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(decimal.NewFromFloat(p))
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices))))
}
