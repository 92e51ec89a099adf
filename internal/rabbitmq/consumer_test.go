package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeConsumer) Consume(_, _ string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, f.err
}

// ackRecorder запоминает решения по каждой доставке.
type ackRecorder struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConsume(t *testing.T) {
	acks := &ackRecorder{}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 1, Body: []byte("ok")}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: []byte("bad")}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 3, Body: []byte("bad"), Redelivered: true}
	close(deliveries)

	done, err := Consume(context.Background(), &fakeConsumer{deliveries: deliveries}, "q", 2, noopLogger(), func(body []byte) error {
		if string(body) == "bad" {
			return errors.New("cannot handle")
		}
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after the delivery channel closed")
	}

	assert.Equal(t, []uint64{1}, acks.acked)
	assert.ElementsMatch(t, []uint64{2, 3}, acks.nacked)
	for i, tag := range acks.nacked {
		assert.Equal(t, tag == 2, acks.requeue[i], "tag %d", tag)
	}
}

func TestConsume_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done, err := Consume(ctx, &fakeConsumer{deliveries: make(chan amqp.Delivery)}, "q", 1, noopLogger(), func([]byte) error { return nil })
	require.NoError(t, err)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestConsume_Error(t *testing.T) {
	_, err := Consume(context.Background(), &fakeConsumer{err: amqp.ErrClosed}, "q", 1, noopLogger(), nil)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}
