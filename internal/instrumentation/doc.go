// Package instrumentation provides OpenTelemetry metrics for gmailkit.
//
// The package records Gmail API operation counts and durations, OAuth
// authentication outcomes, and attachment download volume. Metrics are
// exported either through a Prometheus endpoint (served during long-running
// bulk operations) or to stdout for development.
//
// Instrumentation is enabled by default and controlled through environment
// variables:
//
//	GMAILKIT_INSTRUMENTATION_ENABLED=false   disable entirely
//	GMAILKIT_METRICS_EXPORTER=stdout         use the stdout exporter
//	GMAILKIT_METRICS_DETAILED_LABELS=true    include account labels
//
// A disabled provider still hands out a usable *Metrics; all recording
// methods become no-ops, so callers never need nil checks.
package instrumentation
