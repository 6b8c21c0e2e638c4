// Package pipeline runs the consumer side of the user-profile pipeline:
// poll the broker, decode, transform, and persist, one message at a time.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/profilestream/profilestream/internal/broker"
	"github.com/profilestream/profilestream/internal/metrics"
	"github.com/profilestream/profilestream/internal/model"
	"github.com/profilestream/profilestream/internal/transform"
)

// Poller yields at most one broker message per call, or (nil, nil) when
// the poll wait expires quietly.
type Poller interface {
	Poll(ctx context.Context) (*broker.Message, error)
}

// Sink persists a normalized document keyed by its id.
type Sink interface {
	Store(ctx context.Context, doc *model.NormalizedDocument) error
}

// Loop is the long-running consumer control loop. It processes messages
// strictly one at a time; a slow transform or store stalls only the
// message behind it, and no per-message failure ever stops the loop.
type Loop struct {
	poller Poller
	engine *transform.Engine
	sink   Sink
}

// New assembles a loop from its stages.
func New(poller Poller, engine *transform.Engine, sink Sink) *Loop {
	return &Loop{poller: poller, engine: engine, sink: sink}
}

// Run polls until ctx is cancelled. Broker errors, undecodable payloads,
// transform rejections, and store failures are all logged and skipped;
// only cancellation ends the loop.
func (l *Loop) Run(ctx context.Context) error {
	log.Println("consumer loop started")
	for {
		if err := ctx.Err(); err != nil {
			log.Println("consumer loop stopped")
			return err
		}
		l.runOnce(ctx)
	}
}

func (l *Loop) runOnce(ctx context.Context) {
	msg, err := l.poller.Poll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		metrics.PollErrors.Inc()
		log.Printf("broker poll failed: %v", err)
		return
	}
	if msg == nil {
		// Poll wait expired with nothing to deliver.
		return
	}

	metrics.MessagesConsumed.Inc()

	// Failures are terminal per message: ack regardless of outcome so a
	// bad record is never redelivered.
	defer func() {
		if err := msg.Ack(); err != nil {
			log.Printf("ack failed key=%s: %v", msg.Key, err)
		}
	}()

	var raw model.RawEvent
	if err := json.Unmarshal(msg.Data, &raw); err != nil {
		metrics.DecodeFailures.Inc()
		log.Printf("skipping undecodable payload key=%s: %v (payload=%q)", msg.Key, err, msg.Data)
		return
	}

	doc, err := l.engine.Transform(&raw)
	if err != nil {
		metrics.TransformFailures.Inc()
		log.Printf("skipping untransformable event key=%s: %v", msg.Key, err)
		return
	}

	if err := l.sink.Store(ctx, doc); err != nil {
		metrics.StoreFailures.Inc()
		log.Printf("store failed id=%s: %v", doc.ID, err)
		return
	}

	metrics.DocumentsStored.Inc()
	log.Printf("stored document id=%s", doc.ID)
}
