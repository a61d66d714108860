package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shirtsearch/pkg/logger"
)

// fakeReader replays a fixed set of messages and then blocks until canceled.
type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []kafka.Message
	closed    int
	done      chan struct{}
	want      int
	fetchErr  error
	fetches   int
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	return &fakeReader{pending: msgs, done: make(chan struct{}), want: len(msgs)}
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if f.fetchErr != nil {
		f.fetches++
		err := f.fetchErr
		f.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(f.pending) > 0 {
		m := f.pending[0]
		f.pending = f.pending[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msgs...)
	if len(f.committed) == f.want {
		close(f.done)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func eventMessage(t *testing.T, offset int64, eventType string) kafka.Message {
	t.Helper()
	ev, err := NewEvent(eventType, "catalog", "catalog", "test", map[string]int{"n": int(offset)})
	require.NoError(t, err)
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func runConsumer(t *testing.T, c *Consumer, r *fakeReader) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx) }()

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for commits")
	}
	cancel()
	require.NoError(t, <-errCh)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "ecommerce.catalog.published", Topic("catalog", "published"))
}

func TestNewEvent_RoundTrip(t *testing.T) {
	ev, err := NewEvent("ecommerce.catalog.published", "agg-1", "catalog", "catalog-service", map[string]string{"k": "v"})
	require.NoError(t, err)
	ev.CorrelationID = "corr-1"

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, 1, ev.Version)
	assert.False(t, ev.Timestamp.IsZero())

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	got, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "corr-1", got.CorrelationID)

	var data map[string]string
	require.NoError(t, got.UnmarshalData(&data))
	assert.Equal(t, "v", data["k"])
}

func TestUnmarshalEvent_RequiresEventType(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{"event_id":"1","data":{}}`))
	assert.ErrorContains(t, err, "missing event_type")
}

func TestUnmarshalData_MissingPayload(t *testing.T) {
	ev := &Event{EventID: "e-1", EventType: "t"}
	var v map[string]any
	assert.ErrorContains(t, ev.UnmarshalData(&v), "event e-1 has no data")
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("x", "a", "b", "c", make(chan int))
	assert.Error(t, err)
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	r := newFakeReader(eventMessage(t, 1, "a"), eventMessage(t, 2, "b"))

	var seen []string
	c := newConsumer(r, "topic-ok", "group", func(_ context.Context, ev *Event) error {
		seen = append(seen, ev.EventType)
		return nil
	}, logger.Discard())

	runConsumer(t, c, r)

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Len(t, r.committed, 2)
	assert.Equal(t, 1, r.closed)
	assert.Equal(t, float64(2), testutil.ToFloat64(consumerMessagesProcessed.WithLabelValues("topic-ok", "group")))
}

func TestConsumer_RetriesThenSkipsPoisonMessage(t *testing.T) {
	r := newFakeReader(eventMessage(t, 7, "bad"))

	attempts := 0
	c := newConsumer(r, "topic-poison", "group", func(context.Context, *Event) error {
		attempts++
		return errors.New("handler down")
	}, logger.Discard())
	c.backoff = time.Millisecond

	runConsumer(t, c, r)

	assert.Equal(t, maxHandlerRetries, attempts)
	require.Len(t, r.committed, 1)
	assert.Equal(t, int64(7), r.committed[0].Offset)
	assert.Equal(t, float64(1), testutil.ToFloat64(consumerMessagesFailed.WithLabelValues("topic-poison", "group")))
}

func TestConsumer_RecoversOnRetry(t *testing.T) {
	r := newFakeReader(eventMessage(t, 3, "flaky"))

	attempts := 0
	c := newConsumer(r, "topic-flaky", "group", func(context.Context, *Event) error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	}, logger.Discard())
	c.backoff = time.Millisecond

	runConsumer(t, c, r)

	assert.Equal(t, 2, attempts)
	assert.Equal(t, float64(1), testutil.ToFloat64(consumerMessagesProcessed.WithLabelValues("topic-flaky", "group")))
}

func TestConsumer_SkipsUndecodableMessage(t *testing.T) {
	r := newFakeReader(kafka.Message{Offset: 9, Value: []byte("not json")})

	called := false
	c := newConsumer(r, "topic-garbage", "group", func(context.Context, *Event) error {
		called = true
		return nil
	}, logger.Discard())

	runConsumer(t, c, r)

	assert.False(t, called)
	assert.Len(t, r.committed, 1)
}

func TestConsumer_CloseIsIdempotent(t *testing.T) {
	r := newFakeReader()
	c := newConsumer(r, "t", "g", func(context.Context, *Event) error { return nil }, logger.Discard())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, r.closed)
	assert.Equal(t, "t", c.Topic())
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}

func TestEvent_JSONFieldNames(t *testing.T) {
	ev := &Event{EventID: "1", EventType: "t", Data: json.RawMessage(`{}`)}
	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "event_id")
	assert.Contains(t, m, "event_type")
	assert.NotContains(t, m, "correlation_id")
}

func TestConsumer_StopsWhenReaderClosed(t *testing.T) {
	r := newFakeReader()
	r.fetchErr = io.EOF
	c := newConsumer(r, "topic-closed", "group", func(context.Context, *Event) error { return nil }, logger.Discard())

	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(context.Background()) }()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer kept running after its reader was closed")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, 1, r.fetches)
	assert.Equal(t, 1, r.closed)
}

func TestConsumer_BacksOffOnFetchError(t *testing.T) {
	r := newFakeReader()
	r.fetchErr = errors.New("broker unreachable")
	c := newConsumer(r, "topic-fetch-err", "group", func(context.Context, *Event) error { return nil }, logger.Discard())
	c.backoff = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancel")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.GreaterOrEqual(t, r.fetches, 2)
	assert.LessOrEqual(t, r.fetches, 10)
}
