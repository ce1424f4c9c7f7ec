package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics.
type Metrics struct {
	meter metric.Meter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsActive  metric.Int64UpDownCounter

	// Thread metrics
	ThreadLookupsTotal   metric.Int64Counter
	ThreadsCreatedTotal  metric.Int64Counter
	ThreadRenamesTotal   metric.Int64Counter
	ThreadOperationDuration metric.Float64Histogram

	// Mirror metrics
	MirrorForwardsTotal metric.Int64Counter
	MirrorEditsTotal    metric.Int64Counter
	MirrorDuration      metric.Float64Histogram
	WebhookEnsuresTotal metric.Int64Counter

	// Gateway metrics
	GatewayEventsTotal metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}

	m.HTTPRequestsActive, err = meter.Int64UpDownCounter(
		"http.server.requests.active",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_active: %w", err)
	}

	// Thread metrics
	m.ThreadLookupsTotal, err = meter.Int64Counter(
		"threads.lookups.total",
		metric.WithDescription("Total number of times-thread lookups"),
		metric.WithUnit("{lookups}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating thread_lookups_total: %w", err)
	}

	m.ThreadsCreatedTotal, err = meter.Int64Counter(
		"threads.created.total",
		metric.WithDescription("Total number of times threads created"),
		metric.WithUnit("{threads}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating threads_created_total: %w", err)
	}

	m.ThreadRenamesTotal, err = meter.Int64Counter(
		"threads.renames.total",
		metric.WithDescription("Total number of thread rename attempts"),
		metric.WithUnit("{renames}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating thread_renames_total: %w", err)
	}

	m.ThreadOperationDuration, err = meter.Float64Histogram(
		"threads.operation.duration",
		metric.WithDescription("Thread operation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating thread_operation_duration: %w", err)
	}

	// Mirror metrics
	m.MirrorForwardsTotal, err = meter.Int64Counter(
		"mirror.forwards.total",
		metric.WithDescription("Total number of messages forwarded to notification channels"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mirror_forwards_total: %w", err)
	}

	m.MirrorEditsTotal, err = meter.Int64Counter(
		"mirror.edits.total",
		metric.WithDescription("Total number of edit propagations to mirrored messages"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mirror_edits_total: %w", err)
	}

	m.MirrorDuration, err = meter.Float64Histogram(
		"mirror.operation.duration",
		metric.WithDescription("Mirror operation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mirror_duration: %w", err)
	}

	m.WebhookEnsuresTotal, err = meter.Int64Counter(
		"mirror.webhook.ensures.total",
		metric.WithDescription("Total number of webhook ensure operations"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating webhook_ensures_total: %w", err)
	}

	// Gateway metrics
	m.GatewayEventsTotal, err = meter.Int64Counter(
		"gateway.events.total",
		metric.WithDescription("Total number of gateway events handled"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gateway_events_total: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordThreadLookup records a thread lookup and whether it found a thread.
func (m *Metrics) RecordThreadLookup(ctx context.Context, hit bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("hit", hit),
	}

	m.ThreadLookupsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.ThreadOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		append(attrs, attribute.String("operation", "lookup"))...))
}

// RecordThreadCreated records a successful thread creation.
func (m *Metrics) RecordThreadCreated(ctx context.Context, duration time.Duration) {
	m.ThreadsCreatedTotal.Add(ctx, 1)
	m.ThreadOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", "create")))
}

// RecordThreadRename records a rename attempt and its outcome.
func (m *Metrics) RecordThreadRename(ctx context.Context, outcome string) {
	m.ThreadRenamesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome)))
}

// RecordMirrorForward records a forward attempt and its outcome.
func (m *Metrics) RecordMirrorForward(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}

	m.MirrorForwardsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.MirrorDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		append(attrs, attribute.String("operation", "forward"))...))
}

// RecordMirrorEdit records an edit propagation attempt. Outcome is one of
// "updated", "skipped" (no correlation entry), or "error".
func (m *Metrics) RecordMirrorEdit(ctx context.Context, outcome string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("outcome", outcome),
	}

	m.MirrorEditsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.MirrorDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		append(attrs, attribute.String("operation", "edit"))...))
}

// RecordWebhookEnsure records a webhook ensure operation. Outcome is one of
// "ok", "denied", or "error".
func (m *Metrics) RecordWebhookEnsure(ctx context.Context, outcome string) {
	m.WebhookEnsuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome)))
}

// RecordGatewayEvent records a handled gateway event.
func (m *Metrics) RecordGatewayEvent(ctx context.Context, eventType string) {
	m.GatewayEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", eventType)))
}
