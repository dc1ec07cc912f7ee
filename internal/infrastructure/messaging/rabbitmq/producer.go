package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
)

// PublishToQueue publishes a JSON payload to a queue on the default exchange
func PublishToQueue(
	ctx context.Context,
	conn *Connection,
	queue string,
	payload any,
	options *PublishOptions,
) error {
	// Use default options if not provided
	if options == nil {
		defaultOpts := DefaultPublishOptions()
		options = &defaultOpts
	}
	queueOpts := DefaultQueueOptions()
	if options.QueueOptions != nil {
		queueOpts = *options.QueueOptions
	}

	channel, err := conn.channelFor(queue, queueOpts)
	if err != nil {
		return err
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = channel.PublishWithContext(
		ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		options.publishing(message),
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to queue %s: %w", queue, err)
	}

	conn.logger.Debug("Message published to queue", map[string]any{
		"queue":       queue,
		"payloadSize": len(message),
	})

	return nil
}

// TradePublisher implements the application TradePublisher port on a RabbitMQ queue
type TradePublisher struct {
	conn    *Connection
	queue   string
	options PublishOptions
}

// NewTradePublisher creates a publisher for queue with persistent delivery
func NewTradePublisher(conn *Connection, queue string) *TradePublisher {
	return &TradePublisher{
		conn:    conn,
		queue:   queue,
		options: DefaultPublishOptions(),
	}
}

// Publish sends the executed trade as JSON, tagged with its symbol.
// A connection dropped by the broker is re-established first.
func (p *TradePublisher) Publish(ctx context.Context, trade strategy.ExecutedTrade) error {
	if p.conn.Dropped() {
		if err := p.conn.Connect(); err != nil {
			return fmt.Errorf("reconnect before trade %s: %w", trade.ID, err)
		}
	}

	opts := p.options
	opts.Headers = map[string]any{"symbol": trade.Symbol, "action": string(trade.Action)}

	if err := PublishToQueue(ctx, p.conn, p.queue, trade, &opts); err != nil {
		return fmt.Errorf("publish trade %s: %w", trade.ID, err)
	}
	return nil
}
