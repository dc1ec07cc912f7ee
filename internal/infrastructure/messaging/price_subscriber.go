package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

// PriceSubscriber subscribes to live quotes from Redis Pub/Sub
type PriceSubscriber struct {
	client *RedisClient
	logger logger.Logger
	clock  func() time.Time
}

// NewPriceSubscriber creates a new PriceSubscriber
func NewPriceSubscriber(client *RedisClient, log logger.Logger) *PriceSubscriber {
	return &PriceSubscriber{
		client: client,
		logger: log,
		clock:  time.Now,
	}
}

// Subscribe listens on market.price.{symbol} for every symbol and invokes
// onPrice for each quote until ctx is cancelled.
// Example channel: market.price.BTC-USD
func (s *PriceSubscriber) Subscribe(
	ctx context.Context,
	symbols []string,
	onPrice func(obs strategy.PriceObservation),
) error {
	channels := make([]string, len(symbols))
	for i, symbol := range symbols {
		channels[i] = PriceChannel(symbol)
	}

	s.logger.Info("Subscribing to price channels", map[string]any{
		"channels": channels,
	})

	pubsub := s.client.Client().Subscribe(ctx, channels...)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channels %v: %w", channels, err)
	}

	s.logger.Info("Successfully subscribed to price channels", map[string]any{"channels": len(channels)})

	messages := pubsub.Channel()

	// Process messages
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Price subscription cancelled", nil)
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("price subscription closed")
			}

			obs, err := s.handlePriceMessage(msg.Channel, msg.Payload)
			if err != nil {
				s.logger.Error("Failed to handle price message", map[string]any{
					"error":   err,
					"channel": msg.Channel,
				})
				// Continue processing other messages
				continue
			}
			onPrice(obs)
		}
	}
}

// handlePriceMessage derives the symbol from the channel and parses the quote
func (s *PriceSubscriber) handlePriceMessage(channel, payload string) (strategy.PriceObservation, error) {
	symbol, ok := strings.CutPrefix(channel, PriceChannel(""))
	if !ok || symbol == "" {
		return strategy.PriceObservation{}, fmt.Errorf("unexpected channel %s", channel)
	}
	return ParsePrice(symbol, []byte(payload), s.clock())
}
