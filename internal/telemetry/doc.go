// Package telemetry instruments template rendering with Prometheus
// metrics and OpenTelemetry spans.
//
// Metrics collected (namespace "dashtmpl" by default):
//   - renders_total{entry,status}: renders by entry point and outcome
//   - render_duration_seconds{entry}: render latency
//   - render_errors_total{entry,code}: failed renders by error code
//   - render_warnings_total{code}: diagnostics emitted while parsing
//   - layout_updates_total: layouts installed on an app
//   - reload_clients: connected live reload browsers
//
// Spans are named "dashtmpl.render" and carry the entry point, template
// name and warning count.
package telemetry
