package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Scheduler metric names
const (
	MetricNameActionsTotal         = "farm_actions_total"
	MetricNameGateRejections       = "farm_gate_rejections_total"
	MetricNamePendingActions       = "farm_pending_actions"
	MetricNameClockRefreshFailures = "chain_clock_refresh_failures_total"
	MetricNameClockSkew            = "chain_clock_skew_seconds"
	MetricNameClockStale           = "chain_clock_stale"
	MetricNameRefreshAttempts      = "farm_refresh_attempts_total"
	MetricNameIndexerRequests      = "indexer_requests_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Scheduler metric help text
const (
	HelpTextActionsTotal         = "Wallet submissions by action and outcome"
	HelpTextGateRejections       = "Submissions ignored because the same slot already had one in flight"
	HelpTextPendingActions       = "Actions currently holding a gate key"
	HelpTextClockRefreshFailures = "Failed chain head-block time fetches"
	HelpTextClockSkew            = "Chain time minus local time at the last successful sync"
	HelpTextClockStale           = "1 when the chain clock missed consecutive refreshes"
	HelpTextRefreshAttempts      = "Post-action snapshot refresh attempts by result"
	HelpTextIndexerRequests      = "Indexer requests by endpoint and result"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelAction   = "action"
	LabelOutcome  = "outcome"
	LabelResult   = "result"
	LabelEndpoint = "endpoint"
)

// Label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultCached  = "cached"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUnexpected = "Event payload has unexpected shape"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
