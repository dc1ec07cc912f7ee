package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"dizzycode.xyz/strategy-runtime/internal/application"
	"dizzycode.xyz/strategy-runtime/internal/domain/market"
	"dizzycode.xyz/strategy-runtime/internal/domain/pnl"
	"dizzycode.xyz/strategy-runtime/internal/domain/pricing"
	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
	"dizzycode.xyz/strategy-runtime/internal/domain/strategy/strategies/sma"
	"dizzycode.xyz/strategy-runtime/internal/infrastructure/config"
	"dizzycode.xyz/strategy-runtime/internal/infrastructure/logger"
	"dizzycode.xyz/strategy-runtime/internal/infrastructure/messaging"
	"dizzycode.xyz/strategy-runtime/internal/infrastructure/messaging/rabbitmq"
	"dizzycode.xyz/strategy-runtime/internal/interfaces/http/handler"
	pkglogger "dizzycode.xyz/strategy-runtime/pkg/logger"
)

const serviceName = "strategy-runtime"

func main() {
	// 1. 載入配置
	cfg := config.Load()

	// 2. 創建 logger
	log := logger.Must(cfg)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("Strategy runtime stopped with error", map[string]any{"error": err})
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log pkglogger.Logger) error {
	log.Info("Starting Strategy Runtime", map[string]any{
		"environment": cfg.Environment,
		"port":        cfg.Port,
		"market":      cfg.Strategy.Market,
		"symbols":     cfg.Strategy.Symbols,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 領域層 - Executor + SMA strategy
	strat, err := newStrategy(cfg, log)
	if err != nil {
		return err
	}

	// 4. 基礎設施層 - Redis
	redisClient, err := messaging.NewRedisClient(ctx, messaging.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	reader := messaging.NewMarketDataReader(redisClient, log)

	publisher, closePublisher, err := newPublisher(cfg, redisClient, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	// 5. 應用層 - StrategyService
	service := application.NewStrategyService(strat, reader, publisher, application.ServiceConfig{
		Interval:      cfg.Strategy.Interval,
		HistoryWarmup: cfg.Feed.HistoryWarmup,
		PollLatest:    cfg.Feed.Mode == "poll",
	}, log)

	if err := service.Start(ctx); err != nil {
		return err
	}

	if cfg.Feed.Mode == "subscribe" {
		subscriber := messaging.NewPriceSubscriber(redisClient, log)
		go func() {
			err := subscriber.Subscribe(ctx, cfg.Strategy.Symbols, service.HandlePriceUpdate)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Price subscription stopped", map[string]any{"error": err})
				stop()
			}
		}()
	}

	// 6. 介面層 - status API
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(serviceName, service, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Status API stopped", map[string]any{"error": err})
			stop()
		}
	}()

	log.Info("Strategy Runtime started successfully", map[string]any{
		"strategy": strat.Name(),
		"feed":     cfg.Feed.Mode,
		"sink":     cfg.Sink.Type,
	})

	// 7. 策略循環，直到收到退出信號
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("Shutting down Strategy Runtime...", map[string]any{
		"state": service.Status().State,
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newStrategy(cfg *config.Config, log pkglogger.Logger) (*sma.Strategy, error) {
	strategyConfig, err := cfg.DomainStrategyConfig()
	if err != nil {
		return nil, err
	}

	calendar, err := newCalendar(strategyConfig.Market, cfg.Strategy.Holidays)
	if err != nil {
		return nil, err
	}

	spread, err := pricing.NewSpreadModel(cfg.Spread.Base, cfg.Spread.Impact, cfg.Spread.Overrides)
	if err != nil {
		return nil, err
	}

	opts := []strategy.ExecutorOption{strategy.WithLogger(log)}
	if cfg.Strategy.CostBasis == "none" {
		opts = append(opts, strategy.WithCostBasis(strategy.InertCostBasis{}))
	}

	executor, err := strategy.NewExecutor(strategyConfig, calendar, spread, pnl.NewCashFlowCalculator(), opts...)
	if err != nil {
		return nil, err
	}

	log.Info("Executor created", map[string]any{
		"market":          strategyConfig.Market,
		"maxPositionSize": strategyConfig.MaxPositionSize,
		"stopLoss":        strategyConfig.StopLoss,
		"takeProfit":      strategyConfig.TakeProfit,
		"costBasis":       cfg.Strategy.CostBasis,
		"spreadOverrides": spread.Overrides(),
	})

	return sma.New(sma.Config{
		ShortPeriod:   cfg.SMA.ShortPeriod,
		LongPeriod:    cfg.SMA.LongPeriod,
		TradeQuantity: cfg.SMA.TradeQuantity,
		HistoryLimit:  cfg.SMA.HistoryLimit,
	}, executor)
}

func newCalendar(m market.Market, holidays []string) (market.Calendar, error) {
	if m == market.Stocks {
		return market.NewStocksCalendar(holidays...), nil
	}
	return market.ForMarket(m)
}

// newPublisher selects the executed-trade sink
func newPublisher(
	cfg *config.Config,
	redisClient *messaging.RedisClient,
	log pkglogger.Logger,
) (application.TradePublisher, func(), error) {
	switch cfg.Sink.Type {
	case "rabbitmq":
		conn := rabbitmq.NewConnection(rabbitmq.Config{URL: cfg.Sink.RabbitMQURL}, log)
		if err := conn.Connect(); err != nil {
			return nil, nil, err
		}
		closeConn := func() {
			if err := conn.Close(); err != nil {
				log.Warn("Failed to close RabbitMQ connection", map[string]any{"error": err})
			}
		}
		return rabbitmq.NewTradePublisher(conn, cfg.Sink.Queue), closeConn, nil

	case "none":
		return nil, func() {}, nil

	default:
		return messaging.NewRedisTradePublisher(redisClient, log), func() {}, nil
	}
}
