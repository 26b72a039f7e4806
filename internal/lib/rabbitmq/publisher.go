package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Виды событий подписок.
const (
	EventPurchased = "subscription.purchased"
	EventCancelled = "subscription.cancelled"
)

// SubscriptionEvent — сообщение о смене состояния подписки.
type SubscriptionEvent struct {
	Type           string    `json:"type"`
	SubscriptionID string    `json:"subscription_id"`
	UserID         string    `json:"user_id"`
	BookID         string    `json:"book_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher публикует события подписок в exchange "subscriptions".
// Ключ маршрутизации совпадает с типом события.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishSubscriptionEvent сериализует событие в JSON и публикует его persistent-сообщением.
func (p *Publisher) PublishSubscriptionEvent(event SubscriptionEvent) error {
	const op = "rabbitmq.PublishSubscriptionEvent"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
