package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("1.2.3")

	assert.Equal(t, "gmailkit", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, ExporterPrometheus, cfg.MetricsExporter)
	assert.False(t, cfg.DetailedLabels)
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("GMAILKIT_INSTRUMENTATION_ENABLED", "false")
	t.Setenv("GMAILKIT_METRICS_EXPORTER", "stdout")
	t.Setenv("GMAILKIT_METRICS_DETAILED_LABELS", "true")

	cfg := DefaultConfig("dev")

	assert.False(t, cfg.Enabled)
	assert.Equal(t, ExporterStdout, cfg.MetricsExporter)
	assert.True(t, cfg.DetailedLabels)
}

func TestDefaultConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("GMAILKIT_INSTRUMENTATION_ENABLED", "not-a-bool")

	cfg := DefaultConfig("dev")
	assert.True(t, cfg.Enabled, "malformed boolean should keep the default")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantErr  bool
	}{
		{name: "prometheus", exporter: ExporterPrometheus, wantErr: false},
		{name: "stdout", exporter: ExporterStdout, wantErr: false},
		{name: "unknown", exporter: "graphite", wantErr: true},
		{name: "empty", exporter: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{MetricsExporter: tt.exporter}.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
