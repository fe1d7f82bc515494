package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sincroni/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

const exportInterval = 30 * time.Second

// MetricsProvider records relay outcomes through OpenTelemetry. Every
// recording method is a no-op until Initialize succeeds with OTel enabled.
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	messagesRelayedCounter metric.Int64Counter
	messagesBlockedCounter metric.Int64Counter
	deliveriesCounter      metric.Int64Counter
	auditFailuresCounter   metric.Int64Counter
	eventsPublishedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the meter provider and the relay instruments
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	return mp.initialize(ctx, nil)
}

// initialize builds the provider around reader when given, otherwise around
// the exporter named by the configuration.
func (mp *MetricsProvider) initialize(ctx context.Context, reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	if reader == nil {
		exporter, err := mp.newExporter(ctx)
		if err != nil {
			return err
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("sincroni")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.WithFields(log.Fields{
		"exporter": mp.config.OTelExporterType,
		"service":  mp.config.OTelServiceName,
	}).Info("Metrics provider initialized")
	return nil
}

func (mp *MetricsProvider) newExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	switch mp.config.OTelExporterType {
	case ExporterConsole:
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console exporter: %w", err)
		}
		return exporter, nil

	case ExporterOTLP:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		return exporter, nil

	default:
		return nil, fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}
}

func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.messagesRelayedCounter, MessagesRelayedTotal, "Messages fanned out to a chat scope"},
		{&mp.messagesBlockedCounter, MessagesBlockedTotal, "Messages diverted by origin gating"},
		{&mp.deliveriesCounter, DeliveriesTotal, "Per-destination delivery outcomes"},
		{&mp.auditFailuresCounter, AuditFailuresTotal, "Moderation webhook deliveries that failed"},
		{&mp.eventsPublishedCounter, NATSEventsPublishedTotal, "Domain events forwarded to NATS"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}

	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordMessageRelayed counts one completed fan-out
func (mp *MetricsProvider) RecordMessageRelayed(chatType string) {
	if !mp.isEnabled() {
		return
	}

	mp.messagesRelayedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelChatType, chatType)),
	)
}

// RecordMessageBlocked counts one message diverted by a blacklist
func (mp *MetricsProvider) RecordMessageBlocked(chatType string) {
	if !mp.isEnabled() {
		return
	}

	mp.messagesBlockedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelChatType, chatType)),
	)
}

// RecordDelivery counts one destination outcome
func (mp *MetricsProvider) RecordDelivery(method, result string) {
	if !mp.isEnabled() {
		return
	}

	mp.deliveriesCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelMethod, method),
			attribute.String(LabelResult, result),
		),
	)
}

// RecordAuditFailure counts a failed moderation webhook delivery
func (mp *MetricsProvider) RecordAuditFailure() {
	if !mp.isEnabled() {
		return
	}

	mp.auditFailuresCounter.Add(context.Background(), 1)
}

// RecordEventPublished counts a domain event forwarded to NATS
func (mp *MetricsProvider) RecordEventPublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.eventsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}
