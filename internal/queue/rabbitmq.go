package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the slice of *amqp.Channel the broker uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitMQBroker struct {
	conn    *amqp.Connection
	channel amqpChannel
	url     string
	cfg     Config
	mu      sync.RWMutex
}

type Config struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func NewRabbitMQBroker(cfg Config) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// set QoS
	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	broker := &RabbitMQBroker{
		conn:    conn,
		channel: channel,
		url:     cfg.URL,
		cfg:     cfg,
	}

	// declare queues
	queues := []string{
		QueueEmail,
		QueueRecipeImage,
		QueueUserRegister,
		QueueEmailDLQ,
		QueueRecipeImageDLQ,
		QueueUserRegisterDLQ,
	}

	for _, queueName := range queues {
		if err := broker.declareQueue(queueName); err != nil {
			broker.Close()
			return nil, err
		}
	}

	return broker, nil
}

func (b *RabbitMQBroker) declareQueue(queueName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return nil
}

func (b *RabbitMQBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	err := b.channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         message,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (b *RabbitMQBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs, err := b.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				b.handleMessage(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

// handleMessage acknowledges only after the handler has applied all side
// effects. Permanent failures go straight to the DLQ; retryable failures are
// republished with an incremented retry count after an exponential backoff
// and dead-lettered once the cap is reached. The backoff runs on a timer so
// the consumer goroutine keeps draining the prefetch window; the delivery
// stays unacknowledged until its republish lands.
func (b *RabbitMQBroker) handleMessage(ctx context.Context, msg amqp.Delivery, handler MessageHandler, queueName string) {
	err := handler(ctx, msg.Body)
	if err == nil {
		msg.Ack(false)
		return
	}

	retryCount := 0
	if msg.Headers != nil {
		if count, ok := msg.Headers["x-retry-count"].(int32); ok {
			retryCount = int(count)
		}
	}

	if !IsPermanent(err) && retryCount < b.cfg.MaxRetries {
		delay := b.cfg.RetryDelay * time.Duration(1<<retryCount)
		time.AfterFunc(delay, func() {
			b.redeliver(msg, queueName, retryCount+1)
		})
		return
	}

	b.deadLetter(msg, queueName, retryCount, err)
}

func (b *RabbitMQBroker) redeliver(msg amqp.Delivery, queueName string, retryCount int) {
	b.mu.RLock()
	err := b.channel.PublishWithContext(
		context.Background(),
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			Headers: amqp.Table{
				"x-retry-count": int32(retryCount),
			},
			Timestamp: time.Now(),
		},
	)
	b.mu.RUnlock()

	// If the republish failed the message must not be lost: requeue it and
	// let the broker redeliver with the previous retry count.
	if err != nil {
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

func (b *RabbitMQBroker) deadLetter(msg amqp.Delivery, queueName string, retryCount int, handlerErr error) {
	b.mu.RLock()
	err := b.channel.PublishWithContext(
		context.Background(),
		"",
		queueName+"-dlq",
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			Headers: amqp.Table{
				"x-original-queue": queueName,
				"x-retry-count":    int32(retryCount),
				"x-error":          handlerErr.Error(),
			},
			Timestamp: time.Now(),
		},
	)
	b.mu.RUnlock()

	if err != nil {
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

// IsClosed reports whether the underlying connection is gone. Used by the
// health endpoint.
func (b *RabbitMQBroker) IsClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.conn == nil || b.conn.IsClosed()
}

func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
