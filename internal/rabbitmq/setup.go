package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Ключи маршрутизации доменных событий.
const (
	RoutingArticleModerated     = "article.moderated"
	RoutingSubscriptionPurchase = "subscription.purchased"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// EventQueues возвращает очереди, которые слушают потребители уведомлений.
func EventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.article-moderated", RoutingKey: RoutingArticleModerated},
		{QueueName: "notifications.subscription-purchased", RoutingKey: RoutingSubscriptionPurchase},
	}
}

// SetupChannel открывает канал, объявляет обменник exchange и привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, exchange string, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
