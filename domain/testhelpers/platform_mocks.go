package testhelpers

import (
	"context"
	"sync"

	"sincroni/domain/entities"
	"sincroni/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockChatPlatform is a mock implementation of ChatPlatform
type MockChatPlatform struct {
	mock.Mock
}

func (m *MockChatPlatform) ResolveChannel(ctx context.Context, channelID int64) (*entities.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChannelInfo), args.Error(1)
}

func (m *MockChatPlatform) SendChannelMessage(ctx context.Context, channelID int64, msg *entities.OutboundMessage) error {
	args := m.Called(ctx, channelID, msg)
	return args.Error(0)
}

func (m *MockChatPlatform) ExecuteWebhook(ctx context.Context, hook entities.WebhookHandle, threadID int64, msg *entities.OutboundMessage) error {
	args := m.Called(ctx, hook, threadID, msg)
	return args.Error(0)
}

// MockAuditSink is a mock implementation of AuditSink
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) SendAudit(ctx context.Context, record *entities.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// EventRecorder is an EventPublisher that keeps every published event in order
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) Publish(_ context.Context, event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events of one type
func (r *EventRecorder) OfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range r.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// MetricsRecorder is a RelayMetrics implementation that counts calls
type MetricsRecorder struct {
	mu            sync.Mutex
	Relayed       map[string]int
	Blocked       map[string]int
	Deliveries    map[string]int // "method/result" -> count
	AuditFailures int
}

// NewMetricsRecorder creates an empty recorder
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{
		Relayed:    make(map[string]int),
		Blocked:    make(map[string]int),
		Deliveries: make(map[string]int),
	}
}

func (r *MetricsRecorder) RecordMessageRelayed(chatType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Relayed[chatType]++
}

func (r *MetricsRecorder) RecordMessageBlocked(chatType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Blocked[chatType]++
}

func (r *MetricsRecorder) RecordDelivery(method, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deliveries[method+"/"+result]++
}

func (r *MetricsRecorder) RecordAuditFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.AuditFailures++
}

// DeliveryCount returns the count for one method/result pair
func (r *MetricsRecorder) DeliveryCount(method, result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Deliveries[method+"/"+result]
}
