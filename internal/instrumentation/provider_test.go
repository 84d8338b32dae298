package instrumentation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Metrics(), "disabled provider must still return a usable metrics recorder")
	assert.Nil(t, p.MetricsHandler())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderPrometheus(t *testing.T) {
	cfg := Config{
		ServiceName:     "gmailkit",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
	}

	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	defer func() {
		_ = p.Shutdown(context.Background())
	}()

	assert.True(t, p.Enabled())
	assert.NotNil(t, p.Metrics())
	assert.NotNil(t, p.MetricsHandler(), "prometheus exporter must expose an HTTP handler")
}

func TestNewProviderUnsupportedExporter(t *testing.T) {
	cfg := Config{
		ServiceName:     "gmailkit",
		Enabled:         true,
		MetricsExporter: "graphite",
	}

	_, err := NewProvider(context.Background(), cfg)
	require.Error(t, err)
}
