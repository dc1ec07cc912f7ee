package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dizzycode.xyz/strategy-runtime/internal/domain/market"
	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
)

func setRequired(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Strategy.Symbols)
	assert.Equal(t, time.Minute, cfg.Strategy.Interval)
	assert.Equal(t, "average", cfg.Strategy.CostBasis)
	assert.Equal(t, 10, cfg.SMA.ShortPeriod)
	assert.Equal(t, 30, cfg.SMA.LongPeriod)
	assert.Equal(t, 100.0, cfg.SMA.TradeQuantity)
	assert.Equal(t, "poll", cfg.Feed.Mode)
	assert.Equal(t, "redis", cfg.Sink.Type)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Empty(t, cfg.Spread.Overrides)
	assert.False(t, cfg.IsDevelopment())
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("STRATEGY_MARKET", "crypto")
	t.Setenv("STRATEGY_SYMBOLS", " BTC-USD, ETH-USD ,")
	t.Setenv("STRATEGY_INTERVAL", "15s")
	t.Setenv("STRATEGY_MAX_POSITION", "250")
	t.Setenv("STRATEGY_STOP_LOSS", "5")
	t.Setenv("STRATEGY_TAKE_PROFIT", "12.5")
	t.Setenv("STRATEGY_COST_BASIS", "none")
	t.Setenv("SPREAD_OVERRIDES", "BTC-USD:2.5")
	t.Setenv("TRADE_SINK", "rabbitmq")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"BTC-USD", "ETH-USD"}, cfg.Strategy.Symbols)
	assert.Equal(t, 15*time.Second, cfg.Strategy.Interval)
	assert.Equal(t, map[string]float64{"BTC-USD": 2.5}, cfg.Spread.Overrides)
	assert.Equal(t, 0, cfg.Redis.DB, "invalid integers fall back to the default")

	domain, err := cfg.DomainStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, strategy.StrategyConfig{
		Market:          market.Crypto,
		Symbols:         []string{"BTC-USD", "ETH-USD"},
		Interval:        15 * time.Second,
		MaxPositionSize: 250,
		StopLoss:        5,
		TakeProfit:      12.5,
	}, domain)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing environment", "ENVIRONMENT", ""},
		{"missing redis", "REDIS_ADDR", ""},
		{"bad cost basis", "STRATEGY_COST_BASIS", "fifo"},
		{"bad feed", "PRICE_FEED", "websocket"},
		{"bad sink", "TRADE_SINK", "kafka"},
		{"bad override", "SPREAD_OVERRIDES", "AAPL"},
		{"NaN override", "SPREAD_OVERRIDES", "AAPL:NaN"},
		{"zero interval", "STRATEGY_INTERVAL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_NonFiniteFloatsFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("SPREAD_BASE", "NaN")
	t.Setenv("SPREAD_IMPACT", "+Inf")
	t.Setenv("SMA_TRADE_QUANTITY", "nan")
	t.Setenv("STRATEGY_STOP_LOSS", "-Inf")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Spread.Base)
	assert.Equal(t, 0.0, cfg.Spread.Impact)
	assert.Equal(t, 100.0, cfg.SMA.TradeQuantity)
	assert.Equal(t, 0.0, cfg.Strategy.StopLoss)
}

func TestDomainStrategyConfig_Invalid(t *testing.T) {
	setRequired(t)

	t.Setenv("STRATEGY_MARKET", "bonds")
	cfg, err := FromEnv()
	require.NoError(t, err)
	_, err = cfg.DomainStrategyConfig()
	assert.Error(t, err)

	t.Setenv("STRATEGY_MARKET", "stocks")
	t.Setenv("STRATEGY_SYMBOLS", "AAPL,AAPL")
	cfg, err = FromEnv()
	require.NoError(t, err)
	_, err = cfg.DomainStrategyConfig()
	assert.ErrorIs(t, err, strategy.ErrInvalidConfig)
}
