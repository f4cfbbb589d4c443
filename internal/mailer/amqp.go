package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPMailer queues reset messages on a durable direct exchange for a
// separate delivery worker.
type AMQPMailer struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	queue    string
	from     string
}

func NewAMQPMailer(url, exchange, queue, from string) (*AMQPMailer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	m := &AMQPMailer{conn: conn, channel: channel, exchange: exchange, queue: queue, from: from}
	if err := m.setup(); err != nil {
		m.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return m, nil
}

func (m *AMQPMailer) setup() error {
	if err := m.channel.ExchangeDeclare(m.exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := m.channel.QueueDeclare(m.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// routing key is the queue name
	if err := m.channel.QueueBind(m.queue, m.queue, m.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (m *AMQPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	body, err := NewResetMessage(m.from, to, link, time.Now()).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp channels are not safe for concurrent publishers
	m.mu.Lock()
	defer m.mu.Unlock()

	err = m.channel.PublishWithContext(ctx, m.exchange, m.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Log.Info("queued password reset email",
		zap.String("exchange", m.exchange),
		zap.String("queue", m.queue))
	return nil
}

func (m *AMQPMailer) Close() error {
	if m.channel != nil {
		m.channel.Close()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
