package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Supported metrics exporters.
const (
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: gmailkit)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: true)
	// Set to false via GMAILKIT_INSTRUMENTATION_ENABLED=false to disable
	Enabled bool

	// MetricsExporter specifies the metrics exporter type.
	// Options: "prometheus", "stdout" (default: "prometheus")
	MetricsExporter string

	// DetailedLabels controls whether high-cardinality labels such as
	// account names are included. Keep disabled for production to avoid
	// cardinality explosion.
	DetailedLabels bool
}

// DefaultConfig returns a Config populated from the environment.
func DefaultConfig(version string) Config {
	cfg := Config{
		ServiceName:     "gmailkit",
		ServiceVersion:  version,
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
	}

	if v := os.Getenv("GMAILKIT_INSTRUMENTATION_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if v := os.Getenv("GMAILKIT_METRICS_EXPORTER"); v != "" {
		cfg.MetricsExporter = v
	}
	if v := os.Getenv("GMAILKIT_METRICS_DETAILED_LABELS"); v != "" {
		if detailed, err := strconv.ParseBool(v); err == nil {
			cfg.DetailedLabels = detailed
		}
	}

	return cfg
}

// Validate checks the configuration for unsupported values.
func (c Config) Validate() error {
	switch c.MetricsExporter {
	case ExporterPrometheus, ExporterStdout:
		return nil
	default:
		return fmt.Errorf("unsupported metrics exporter: %s", c.MetricsExporter)
	}
}
