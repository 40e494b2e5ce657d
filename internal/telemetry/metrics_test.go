package telemetry

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
)

func TestWithHttpMetricAttributes(t *testing.T) {
	req, _ := http.NewRequest("GET", "/students/42", nil)
	req.Pattern = "GET /students/{id}"

	attrs := WithHttpMetricAttributes(req)

	require.Len(t, attrs, 1)
	assert.Equal(t, semconv.HTTPRouteKey, attrs[0].Key)
	assert.Equal(t, "GET /students/{id}", attrs[0].Value.AsString())

	// Unmatched requests fall back to method plus raw path, same as spans.
	req.Pattern = ""
	attrs = WithHttpMetricAttributes(req)
	assert.Equal(t, "GET /students/42", attrs[0].Value.AsString())
}
