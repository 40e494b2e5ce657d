package usecases

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter             = otel.Meter("usecases")
	ModelTokensUsed   metric.Int64Counter
	ToolCallsTotal    metric.Int64Counter
	LiveAudioFrames   metric.Int64Counter
	OutboxRelayEvents metric.Int64Counter
)

func init() {
	var err error
	ModelTokensUsed, err = meter.Int64Counter(
		"model_tokens_used_total",
		metric.WithDescription("Total model tokens consumed"),
	)
	if err != nil {
		panic(err)
	}
	ToolCallsTotal, err = meter.Int64Counter(
		"assistant_tool_calls_total",
		metric.WithDescription("Total tool calls dispatched by the assistant"),
	)
	if err != nil {
		panic(err)
	}
	LiveAudioFrames, err = meter.Int64Counter(
		"live_audio_frames_total",
		metric.WithDescription("Total audio frames relayed in live sessions"),
	)
	if err != nil {
		panic(err)
	}
	OutboxRelayEvents, err = meter.Int64Counter(
		"outbox_relay_events_total",
		metric.WithDescription("Total outbox events processed by the relay"),
	)
	if err != nil {
		panic(err)
	}
}

// RecordModelTokensUsed records the tokens used in one model exchange.
func RecordModelTokensUsed(ctx context.Context, promptTokens, completionTokens int) {
	ModelTokensUsed.Add(ctx, int64(promptTokens), metric.WithAttributes(
		attribute.String("token_type", "prompt"),
	))
	ModelTokensUsed.Add(ctx, int64(completionTokens), metric.WithAttributes(
		attribute.String("token_type", "completion"),
	))
}

// RecordModelTokensEmbedding records the tokens used in an embedding operation.
func RecordModelTokensEmbedding(ctx context.Context, totalTokens int) {
	ModelTokensUsed.Add(ctx, int64(totalTokens), metric.WithAttributes(
		attribute.String("token_type", "embedding"),
	))
}

// RecordToolCalls records how many tool calls one turn dispatched.
func RecordToolCalls(ctx context.Context, count int) {
	ToolCallsTotal.Add(ctx, int64(count))
}

// RecordLiveAudioFrame records one relayed live audio frame.
func RecordLiveAudioFrame(ctx context.Context, direction string) {
	LiveAudioFrames.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
	))
}

// RecordOutboxRelayEvent records one processed outbox event.
func RecordOutboxRelayEvent(ctx context.Context, status string) {
	OutboxRelayEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}
