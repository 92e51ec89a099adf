package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
)

// Consumer — часть amqp.Channel, нужная потребителю.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Handler обрабатывает тело одного сообщения.
type Handler func(body []byte) error

// Consume читает очередь queue и обрабатывает сообщения не более чем в workers
// горутинах. Сообщение с ошибкой возвращается в очередь один раз, повторная
// ошибка отбрасывает его. Возвращённый канал закрывается, когда чтение
// остановлено и все обработчики завершились.
func Consume(ctx context.Context, ch Consumer, queue string, workers int, log *slog.Logger, handler Handler) (<-chan struct{}, error) {
	const op = "rabbitmq.Consume"
	deliveries, err := ch.Consume(
		queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queue))
	done := make(chan struct{})
	sem := make(chan struct{}, max(workers, 1))
	var wg sync.WaitGroup

	go func() {
		defer close(done)
		defer wg.Wait()
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				sem <- struct{}{}
				wg.Add(1)
				go func(d amqp.Delivery) {
					defer wg.Done()
					defer func() { <-sem }()
					handle(log, d, handler)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done, nil
}

func handle(log *slog.Logger, d amqp.Delivery, handler Handler) {
	if err := handler(d.Body); err != nil {
		requeue := !d.Redelivered
		log.Error("failed to handle message", slog.Bool("requeue", requeue), sl.Err(err))
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
