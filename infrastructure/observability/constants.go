package observability

// Metric name prefixes
const (
	MetricPrefix = "sincroni"
)

// Metric names
const (
	// Relay metrics
	MessagesRelayedTotal = MetricPrefix + ".relay.messages_relayed_total"
	MessagesBlockedTotal = MetricPrefix + ".relay.messages_blocked_total"
	DeliveriesTotal      = MetricPrefix + ".relay.deliveries_total"
	AuditFailuresTotal   = MetricPrefix + ".relay.audit_failures_total"

	// NATS metrics
	NATSEventsPublishedTotal = MetricPrefix + ".nats.events_published_total"
)

// Label keys
const (
	LabelChatType  = "chat_type"
	LabelMethod    = "method"
	LabelResult    = "result"
	LabelEventType = "event_type"
)

// Exporter types
const (
	ExporterConsole = "console"
	ExporterOTLP    = "otlp"
)
