package broker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Message is one delivered broker message. Ack must be called exactly
// once after processing; with the pipeline's no-retry posture it is
// called whether processing succeeded or not.
type Message struct {
	Key  string
	Data []byte

	ack func() error
}

// NewMessage builds a Message around an acknowledgment callback.
func NewMessage(key string, data []byte, ack func() error) *Message {
	return &Message{Key: key, Data: data, ack: ack}
}

// Ack acknowledges the message to the broker.
func (m *Message) Ack() error {
	if m.ack == nil {
		return nil
	}
	return m.ack()
}

// fetchConsumer is the slice of jetstream.Consumer the poller needs.
type fetchConsumer interface {
	Fetch(batch int, opts ...jetstream.FetchOpt) (jetstream.MessageBatch, error)
}

// Poller fetches one message at a time from a durable consumer with a
// bounded wait, so an idle broker yields a nil message rather than
// blocking the loop indefinitely.
type Poller struct {
	consumer fetchConsumer
	wait     time.Duration
}

// NewPoller returns a poller with the given per-poll wait.
func NewPoller(consumer jetstream.Consumer, wait time.Duration) *Poller {
	return &Poller{consumer: consumer, wait: wait}
}

// Poll returns the next message, or (nil, nil) when the wait expires
// with nothing to deliver. Reaching the end of the stream is logged and
// reported as an empty poll: it is expected at the tail, not a failure.
func (p *Poller) Poll(ctx context.Context) (*Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch, err := p.consumer.Fetch(1, jetstream.FetchMaxWait(p.wait))
	if err != nil {
		if errors.Is(err, jetstream.ErrNoMessages) {
			log.Printf("reached end of stream, no messages pending")
			return nil, nil
		}
		return nil, err
	}

	for msg := range batch.Messages() {
		return NewMessage(msg.Headers().Get(jetstream.MsgIDHeader), msg.Data(), msg.Ack), nil
	}

	if err := batch.Error(); err != nil && !errors.Is(err, jetstream.ErrNoMessages) {
		return nil, err
	}
	return nil, nil
}
