package otel_test

import (
	"context"
	"errors"
	"spacebook/infras/otel"
	"spacebook/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) trace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func attr(span trace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

func TestScope_TraceError(t *testing.T) {
	t.Run("server failure sets error status", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) { scope.TraceError(errors.New("db down")) })

		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "db down", span.Status().Description)

		code, ok := attr(span, "failure.code")
		require.True(t, ok)
		assert.Equal(t, int64(500), code.AsInt64())
	})

	t.Run("conflict is only an event", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) { scope.TraceError(failure.Conflict("slot taken")) })

		assert.Equal(t, codes.Unset, span.Status().Code)
		require.Len(t, span.Events(), 1)
		assert.Equal(t, "rejected", span.Events()[0].Name)
	})

	t.Run("nil is ignored", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) { scope.TraceIfError(nil) })

		assert.Equal(t, codes.Unset, span.Status().Code)
		assert.Empty(t, span.Attributes())
	})
}

func TestScope_SetAttributes(t *testing.T) {
	at := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)

	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"space.id":   "s1",
			"guests":     4,
			"hold":       15 * time.Minute,
			"start":      at,
			"statuses":   []string{"confirmed"},
			"accepted":   true,
			"unexpected": struct{ N int }{N: 1},
		})
	})

	tests := []struct {
		key      string
		expected attribute.Value
	}{
		{key: "space.id", expected: attribute.StringValue("s1")},
		{key: "guests", expected: attribute.IntValue(4)},
		{key: "hold", expected: attribute.Int64Value(900000)},
		{key: "start", expected: attribute.StringValue("2030-01-07T09:00:00Z")},
		{key: "statuses", expected: attribute.StringSliceValue([]string{"confirmed"})},
		{key: "accepted", expected: attribute.BoolValue(true)},
		{key: "unexpected", expected: attribute.StringValue("{1}")},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			value, ok := attr(span, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}
