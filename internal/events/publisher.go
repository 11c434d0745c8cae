package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Dinnervery/Backend-sub000/internal/order"
)

const exchange = "order_status"

// Publisher fans order status changes out over RabbitMQ for
// kitchen displays and delivery tracking. It satisfies
// order.Notifier.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: channel}, nil
}

type statusChangedMessage struct {
	OrderID      string       `json:"order_id"`
	CustomerID   string       `json:"customer_id"`
	Status       order.Status `json:"status"`
	PayableTotal int          `json:"payable_total"`
	DeliveryTime time.Time    `json:"delivery_time"`
	ChangedAt    time.Time    `json:"changed_at"`
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, o *order.Order) error {
	body, err := json.Marshal(statusChangedMessage{
		OrderID:      o.ID,
		CustomerID:   o.CustomerID,
		Status:       o.Status,
		PayableTotal: o.PayableTotal,
		DeliveryTime: o.DeliveryTime,
		ChangedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		exchange,
		"", // fanout ignores the routing key
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
