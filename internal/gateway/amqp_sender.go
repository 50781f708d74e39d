package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// NotificationMessage is the payload published for downstream mailers.
type NotificationMessage struct {
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSender publishes notifications to a durable queue.
type AMQPSender struct {
	conn      *amqp.Connection
	channel   publisher
	exchange  string
	queueName string
}

func NewAMQPSender(url, exchange, queueName string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declare(channel, exchange, queueName); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPSender{conn: conn, channel: channel, exchange: exchange, queueName: queueName}, nil
}

// declare sets up a durable direct exchange bound to a durable queue keyed by its name.
func declare(channel *amqp.Channel, exchange, queueName string) error {
	if err := channel.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := channel.QueueBind(queueName, queueName, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (s *AMQPSender) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(&NotificationMessage{
		To:        to,
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return deliveryFailed(to, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = s.channel.PublishWithContext(ctx, s.exchange, s.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return deliveryFailed(to, err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	if c, ok := s.channel.(*amqp.Channel); ok {
		c.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
