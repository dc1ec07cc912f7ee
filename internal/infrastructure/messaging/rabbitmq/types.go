package rabbitmq

import amqp "github.com/rabbitmq/amqp091-go"

// Config holds RabbitMQ connection configuration
type Config struct {
	URL string
}

// QueueOptions represents queue declaration options
type QueueOptions struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

// DefaultQueueOptions returns default queue options
func DefaultQueueOptions() QueueOptions {
	return QueueOptions{
		Durable: true,
	}
}

// PublishOptions represents message publishing options
type PublishOptions struct {
	Persistent   bool
	Priority     uint8
	Expiration   string
	Headers      amqp.Table
	QueueOptions *QueueOptions
}

// DefaultPublishOptions returns default publish options
func DefaultPublishOptions() PublishOptions {
	queueOpts := DefaultQueueOptions()
	return PublishOptions{
		Persistent:   true,
		QueueOptions: &queueOpts,
	}
}

// publishing builds the AMQP message for a JSON body
func (o PublishOptions) publishing(body []byte) amqp.Publishing {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Transient,
		Priority:     o.Priority,
		Headers:      o.Headers,
		Expiration:   o.Expiration,
	}
	if o.Persistent {
		msg.DeliveryMode = amqp.Persistent
	}
	return msg
}
