package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profilestream/profilestream/internal/broker"
	"github.com/profilestream/profilestream/internal/model"
	"github.com/profilestream/profilestream/internal/transform"
)

// scriptedPoller replays a fixed sequence of poll outcomes, then cancels
// the loop's context so Run returns deterministically.
type scriptedPoller struct {
	polls  []pollResult
	cancel context.CancelFunc
	acked  int
}

type pollResult struct {
	msg *broker.Message
	err error
}

func (p *scriptedPoller) Poll(ctx context.Context) (*broker.Message, error) {
	if len(p.polls) == 0 {
		p.cancel()
		return nil, ctx.Err()
	}
	next := p.polls[0]
	p.polls = p.polls[1:]
	return next.msg, next.err
}

func (p *scriptedPoller) message(key string, data []byte) *broker.Message {
	return broker.NewMessage(key, data, func() error {
		p.acked++
		return nil
	})
}

type recordingSink struct {
	docs    []*model.NormalizedDocument
	failID  string
	failErr error
}

func (s *recordingSink) Store(_ context.Context, doc *model.NormalizedDocument) error {
	if s.failErr != nil && doc.ID == s.failID {
		return s.failErr
	}
	s.docs = append(s.docs, doc)
	return nil
}

func rawPayload(t *testing.T, id string) []byte {
	t.Helper()
	data, err := json.Marshal(&model.RawEvent{
		ID:     id,
		Name:   model.Name{Title: "Mr", First: "John", Last: "Doe"},
		Gender: "male",
	})
	require.NoError(t, err)
	return data
}

func runLoop(t *testing.T, poller *scriptedPoller, sink Sink) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	poller.cancel = cancel

	engine := transform.NewEngineWithClock(func() time.Time {
		return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	})

	err := New(poller, engine, sink).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoop_StoresDecodedMessages(t *testing.T) {
	poller := &scriptedPoller{}
	poller.polls = []pollResult{
		{msg: poller.message("abc-1", rawPayload(t, "abc-1"))},
		{}, // quiet poll
		{msg: poller.message("abc-2", rawPayload(t, "abc-2"))},
	}
	sink := &recordingSink{}

	runLoop(t, poller, sink)

	require.Len(t, sink.docs, 2)
	assert.Equal(t, "abc-1", sink.docs[0].ID)
	assert.Equal(t, "abc-2", sink.docs[1].ID)
	assert.Equal(t, 2, poller.acked)
}

func TestLoop_MalformedPayloadSkipped(t *testing.T) {
	poller := &scriptedPoller{}
	poller.polls = []pollResult{
		{msg: poller.message("bad", []byte(`{'id': 'bad'`))},
		{msg: poller.message("abc-1", rawPayload(t, "abc-1"))},
	}
	sink := &recordingSink{}

	runLoop(t, poller, sink)

	// Exactly one document: the malformed payload is skipped, not fatal.
	require.Len(t, sink.docs, 1)
	assert.Equal(t, "abc-1", sink.docs[0].ID)

	// Both messages acked so neither is redelivered.
	assert.Equal(t, 2, poller.acked)
}

func TestLoop_TransformFailureSkipped(t *testing.T) {
	missingID, err := json.Marshal(&model.RawEvent{Gender: "female"})
	require.NoError(t, err)

	poller := &scriptedPoller{}
	poller.polls = []pollResult{
		{msg: poller.message("", missingID)},
		{msg: poller.message("abc-1", rawPayload(t, "abc-1"))},
	}
	sink := &recordingSink{}

	runLoop(t, poller, sink)

	require.Len(t, sink.docs, 1)
	assert.Equal(t, "abc-1", sink.docs[0].ID)
}

func TestLoop_StoreFailureDoesNotHaltLoop(t *testing.T) {
	poller := &scriptedPoller{}
	poller.polls = []pollResult{
		{msg: poller.message("abc-1", rawPayload(t, "abc-1"))},
		{msg: poller.message("abc-2", rawPayload(t, "abc-2"))},
	}
	sink := &recordingSink{failID: "abc-1", failErr: errors.New("duplicate key")}

	runLoop(t, poller, sink)

	require.Len(t, sink.docs, 1)
	assert.Equal(t, "abc-2", sink.docs[0].ID)
	assert.Equal(t, 2, poller.acked)
}

func TestLoop_PollErrorDoesNotHaltLoop(t *testing.T) {
	poller := &scriptedPoller{}
	poller.polls = []pollResult{
		{err: errors.New("broker unavailable")},
		{msg: poller.message("abc-1", rawPayload(t, "abc-1"))},
	}
	sink := &recordingSink{}

	runLoop(t, poller, sink)

	require.Len(t, sink.docs, 1)
}
