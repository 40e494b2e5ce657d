package telemetry

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitOpenTelemetry_InitializeClose_Disabled(t *testing.T) {
	init := &InitOpenTelemetry{
		Logger:          log.New(io.Discard, "", 0),
		TracesEndpoint:  "-",
		MetricsEndpoint: "-",
	}

	ctx, err := init.Initialize(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, ctx)

	// Both pipelines disabled; Close must be a no-op.
	init.Close()
}

func TestInitHttpClient_Initialize(t *testing.T) {
	init := InitHttpClient{Logger: log.New(io.Discard, "", 0)}

	ctx, err := init.Initialize(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, ctx)
}
