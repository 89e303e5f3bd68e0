package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/observability"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestSetupTracingSDK_SinEndpoint(t *testing.T) {
	shutdown, err := observability.SetupTracingSDK(context.Background(), config.OTelConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestSetupTracingSDK_ConEndpoint(t *testing.T) {
	cfg := config.OTelConfig{
		Endpoint:    "localhost:4318",
		URLPath:     "/v1/traces",
		ServiceName: "stock-ledger-test",
		Version:     "test",
	}
	shutdown, err := observability.SetupTracingSDK(context.Background(), cfg)
	require.NoError(t, err)
	// Sin spans pendientes el shutdown no necesita hablar con el colector.
	assert.NoError(t, shutdown(context.Background()))
}
