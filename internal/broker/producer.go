package broker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// asyncPublisher is the slice of jetstream.JetStream the producer needs.
type asyncPublisher interface {
	PublishMsgAsync(msg *nats.Msg, opts ...jetstream.PublishOpt) (jetstream.PubAckFuture, error)
	PublishAsyncComplete() <-chan struct{}
}

// Producer publishes serialized events keyed by their entity id. Each
// publish resolves asynchronously to a delivery receipt; Flush blocks
// until every outstanding receipt has arrived, so a producer that
// flushes before exit cannot silently drop messages.
type Producer struct {
	js      asyncPublisher
	subject string

	wg        sync.WaitGroup
	delivered atomic.Int64
	failed    atomic.Int64
}

// NewProducer returns a producer publishing on the client's subject.
func NewProducer(c *Client) *Producer {
	return &Producer{js: c.js, subject: c.cfg.Subject}
}

// Publish enqueues one payload keyed by key. The key travels as the
// message id header: the broker uses it for deduplication and consumers
// read it back as the entity key. The delivery receipt is consumed by
// logging only, never by pipeline logic.
func (p *Producer) Publish(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    payload,
		Header:  nats.Header{},
	}
	msg.Header.Set(jetstream.MsgIDHeader, key)

	future, err := p.js.PublishMsgAsync(msg)
	if err != nil {
		p.failed.Add(1)
		return fmt.Errorf("publish key=%s: %w", key, err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case ack := <-future.Ok():
			p.delivered.Add(1)
			log.Printf("delivered key=%s stream=%s seq=%d duplicate=%v",
				key, ack.Stream, ack.Sequence, ack.Duplicate)
		case err := <-future.Err():
			p.failed.Add(1)
			log.Printf("delivery failed key=%s: %v", key, err)
		}
	}()

	return nil
}

// Flush waits until the broker has acknowledged (or rejected) every
// outstanding publish. Exiting without a completed Flush may drop
// messages still in flight.
func (p *Producer) Flush(ctx context.Context) error {
	select {
	case <-p.js.PublishAsyncComplete():
	case <-ctx.Done():
		return fmt.Errorf("flush interrupted: %w", ctx.Err())
	}
	p.wg.Wait()
	return nil
}

// Delivered returns the number of acknowledged publishes.
func (p *Producer) Delivered() int64 {
	return p.delivered.Load()
}

// Failed returns the number of rejected publishes.
func (p *Producer) Failed() int64 {
	return p.failed.Load()
}
