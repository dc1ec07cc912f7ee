package application

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"dizzycode.xyz/strategy-runtime/internal/domain/market"
	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

// PriceReader market data port, implemented by the infrastructure layer
type PriceReader interface {
	GetPriceHistory(ctx context.Context, symbol string, limit int) ([]strategy.PriceObservation, error)
	GetLatestPrice(ctx context.Context, symbol string) (strategy.PriceObservation, error)
}

// TradePublisher executed-trade sink port
type TradePublisher interface {
	Publish(ctx context.Context, trade strategy.ExecutedTrade) error
}

// TradingStrategy a price-driven strategy that trades through an Executor
type TradingStrategy interface {
	strategy.Strategy[[]strategy.PriceObservation]
	Executor() *strategy.Executor
}

// ServiceConfig driver settings
type ServiceConfig struct {
	Interval      time.Duration // tick period of Run
	HistoryWarmup int           // prices per symbol trained on Start, 0 = none
	PollLatest    bool          // read the latest price of every symbol on each tick
}

// TickResult outcome of one evaluation cycle
type TickResult struct {
	Observations int
	Signals      []strategy.TradeSignal
	Executed     []strategy.ExecutedTrade
	Rejected     int
}

// Status read model served by the status API
type Status struct {
	Strategy        string                 `json:"strategy"`
	Market          market.Market          `json:"market"`
	Symbols         []string               `json:"symbols"`
	State           strategy.StateSnapshot `json:"state"`
	Ticks           int64                  `json:"ticks"`
	LastTick        time.Time              `json:"lastTick"`
	ExecutedTrades  int64                  `json:"executedTrades"`
	RejectedSignals int64                  `json:"rejectedSignals"`
}

// StrategyService strategy application service
// Responsibilities:
// 1. drive one strategy instance: initialize, warm up, train, predict, execute
// 2. publish executed trades through the TradePublisher port
// 3. serialize every access to the strategy and its state
type StrategyService struct {
	strategy  TradingStrategy
	reader    PriceReader
	publisher TradePublisher
	config    ServiceConfig
	logger    logger.Logger

	mu       sync.Mutex
	pending  []strategy.PriceObservation
	lastSeen map[string]time.Time
	ticks    int64
	lastTick time.Time
	executed int64
	rejected int64
}

// NewStrategyService creates the service; reader and publisher may be nil
func NewStrategyService(
	strat TradingStrategy,
	reader PriceReader,
	publisher TradePublisher,
	config ServiceConfig,
	log logger.Logger,
) *StrategyService {
	return &StrategyService{
		strategy:  strat,
		reader:    reader,
		publisher: publisher,
		config:    config,
		logger:    log.With("strategy", strat.Name()),
		lastSeen:  make(map[string]time.Time),
	}
}

// Start initializes the strategy and trains it on stored price history
func (s *StrategyService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.strategy.Initialize(); err != nil {
		return err
	}
	s.pending = nil
	clear(s.lastSeen)

	if s.reader == nil || s.config.HistoryWarmup <= 0 {
		return nil
	}

	for _, symbol := range s.symbols() {
		history, err := s.reader.GetPriceHistory(ctx, symbol, s.config.HistoryWarmup)
		if err != nil {
			return err
		}

		batch := s.accept(history)
		if err := s.strategy.Train(batch); err != nil {
			return err
		}

		s.logger.Info("Price history loaded", map[string]any{
			"symbol": symbol,
			"prices": len(batch),
		})
	}

	return nil
}

// HandlePriceUpdate queues a pushed price for the next tick
func (s *StrategyService) HandlePriceUpdate(obs strategy.PriceObservation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, s.accept([]strategy.PriceObservation{obs})...)
}

// Tick runs one evaluation cycle at now.
//
// Rejected signals and publish failures are logged and counted; only a failing
// Train or Predict is returned.
func (s *StrategyService) Tick(ctx context.Context, now time.Time) (TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result TickResult

	if s.config.PollLatest && s.reader != nil {
		s.pollLatest(ctx)
	}

	batch := s.pending
	s.pending = nil
	result.Observations = len(batch)

	if err := s.strategy.Train(batch); err != nil {
		return result, err
	}

	signals, err := s.strategy.Predict(now)
	if err != nil {
		return result, err
	}
	result.Signals = signals

	executor := s.strategy.Executor()
	for _, signal := range signals {
		trade, err := executor.ValidateAndExecuteTrade(signal)
		if err != nil {
			result.Rejected++
			continue
		}
		result.Executed = append(result.Executed, trade)

		if s.publisher == nil {
			continue
		}
		if err := s.publisher.Publish(ctx, trade); err != nil {
			s.logger.Error("Failed to publish trade", map[string]any{
				"error":   err,
				"tradeId": trade.ID,
				"symbol":  trade.Symbol,
			})
		}
	}

	s.ticks++
	s.lastTick = now
	s.executed += int64(len(result.Executed))
	s.rejected += int64(result.Rejected)

	if len(signals) > 0 {
		s.logger.Info("Tick evaluated", map[string]any{
			"signals":  len(signals),
			"executed": len(result.Executed),
			"rejected": result.Rejected,
		})
	}

	return result, nil
}

// Run ticks every Interval until ctx is cancelled. Tick errors never stop the loop.
func (s *StrategyService) Run(ctx context.Context) error {
	if s.config.Interval <= 0 {
		return errors.New("tick interval must be positive")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info("Strategy loop started", map[string]any{
		"interval": s.config.Interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Strategy loop stopped", nil)
			return ctx.Err()

		case now := <-ticker.C:
			if _, err := s.Tick(ctx, now); err != nil {
				s.logger.Error("Tick failed", map[string]any{"error": err})
			}
		}
	}
}

// Status snapshot of the strategy for reporting (query use case)
func (s *StrategyService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	executor := s.strategy.Executor()
	cfg := executor.Config()

	return Status{
		Strategy:        s.strategy.Name(),
		Market:          cfg.Market,
		Symbols:         cfg.Symbols,
		State:           executor.State(),
		Ticks:           s.ticks,
		LastTick:        s.lastTick,
		ExecutedTrades:  s.executed,
		RejectedSignals: s.rejected,
	}
}

func (s *StrategyService) pollLatest(ctx context.Context) {
	for _, symbol := range s.symbols() {
		obs, err := s.reader.GetLatestPrice(ctx, symbol)
		if err != nil {
			s.logger.Warn("Failed to get latest price", map[string]any{
				"error":  err,
				"symbol": symbol,
			})
			continue
		}
		s.pending = append(s.pending, s.accept([]strategy.PriceObservation{obs})...)
	}
}

// accept drops observations the strategy cannot train on and prices already
// seen, so a quote polled twice is not counted twice. Callers hold mu.
func (s *StrategyService) accept(observations []strategy.PriceObservation) []strategy.PriceObservation {
	cfg := s.strategy.Executor().Config()
	accepted := make([]strategy.PriceObservation, 0, len(observations))

	for _, obs := range observations {
		if !cfg.HasSymbol(obs.Symbol) || obs.Price <= 0 || math.IsNaN(obs.Price) || math.IsInf(obs.Price, 0) {
			s.logger.Warn("Dropping price observation", map[string]any{
				"symbol": obs.Symbol,
				"price":  obs.Price,
			})
			continue
		}

		if last, ok := s.lastSeen[obs.Symbol]; ok && !obs.Timestamp.After(last) {
			continue
		}
		s.lastSeen[obs.Symbol] = obs.Timestamp
		accepted = append(accepted, obs)
	}

	return accepted
}

func (s *StrategyService) symbols() []string {
	return s.strategy.Executor().Config().Symbols
}
