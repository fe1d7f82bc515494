package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"sincroni/domain/events"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
	notify   chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{notify: make(chan struct{}, 16)}
}

func (f *fakePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{subject: subject, data: data})
	f.notify <- struct{}{}
	return nil
}

func (f *fakePublisher) snapshot() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMessage(nil), f.messages...)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) RecordEventPublished(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[eventType]++
}

func TestNATSEventPublisher_Envelope(t *testing.T) {
	t.Parallel()

	fake := newFakePublisher()
	recorder := &countingRecorder{}
	publisher := NewNATSEventPublisher(fake, "sincroni.events", recorder)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	event := events.BlacklistAddedEvent{ServerID: 1001, EntityID: 7001, EntityKind: "user", Scopes: "public"}
	require.NoError(t, publisher.Publish(context.Background(), event))

	messages := fake.snapshot()
	require.Len(t, messages, 1)
	assert.Equal(t, "sincroni.events.blacklist_added", messages[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(messages[0].data, &envelope))
	assert.Equal(t, "blacklist_added", envelope.EventType)
	assert.Equal(t, "sincroni", envelope.SourceService)
	assert.True(t, fixed.Equal(envelope.Timestamp))
	_, err := uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.BlacklistAddedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)

	assert.Equal(t, 1, recorder.counts["blacklist_added"])
}

func TestNATSEventPublisher_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "no stream is ignored", err: fmt.Errorf("wrapped: %w", nats.ErrNoStreamResponse)},
		{name: "other errors surface", err: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := newFakePublisher()
			fake.err = tt.err
			publisher := NewNATSEventPublisher(fake, "sincroni.events", nil)

			err := publisher.Publish(context.Background(), events.EmbedColorClearedEvent{ServerID: 1, ChatType: "public"})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNATSEventPublisher_Subjects(t *testing.T) {
	t.Parallel()

	publisher := NewNATSEventPublisher(newFakePublisher(), "relay", nil)
	subjects := publisher.Subjects()

	assert.Len(t, subjects, len(events.AllEventTypes))
	assert.Contains(t, subjects, "relay.message_relayed")
	assert.Contains(t, subjects, "relay.global_chat_linked")
}

func TestNATSEventPublisher_AttachForwardsBusEvents(t *testing.T) {
	t.Parallel()

	fake := newFakePublisher()
	publisher := NewNATSEventPublisher(fake, "sincroni.events", nil)

	bus := events.NewBus()
	publisher.Attach(bus)

	bus.Publish(context.Background(), events.LinkedChannelAddedEvent{OriginChannelID: 1, DestinationChannelID: 2})

	select {
	case <-fake.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not forwarded")
	}

	messages := fake.snapshot()
	require.Len(t, messages, 1)
	assert.Equal(t, "sincroni.events.linked_channel_added", messages[0].subject)
}
