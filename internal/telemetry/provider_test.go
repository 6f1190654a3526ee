package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoumyadip/tb-update-handles/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.OTelConfig{Enabled: false}, "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_Enabled(t *testing.T) {
	cfg := config.OTelConfig{
		Enabled:     true,
		Endpoint:    "http://127.0.0.1:4318",
		ServiceName: "tb-update-handles-test",
		SampleRatio: 1,
	}
	shutdown, err := Init(context.Background(), cfg, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
