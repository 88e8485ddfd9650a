package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Action Metrics
var (
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActionsTotal,
			Help: HelpTextActionsTotal,
		},
		[]string{LabelAction, LabelOutcome},
	)

	GateRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGateRejections,
			Help: HelpTextGateRejections,
		},
		[]string{LabelAction},
	)

	PendingActions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNamePendingActions,
			Help: HelpTextPendingActions,
		},
	)

	RefreshAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRefreshAttempts,
			Help: HelpTextRefreshAttempts,
		},
		[]string{LabelResult},
	)
)

// Clock Metrics
var (
	ClockRefreshFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClockRefreshFailures,
			Help: HelpTextClockRefreshFailures,
		},
	)

	ClockSkew = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameClockSkew,
			Help: HelpTextClockSkew,
		},
	)

	ClockStale = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameClockStale,
			Help: HelpTextClockStale,
		},
	)
)

// Indexer Metrics
var (
	IndexerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameIndexerRequests,
			Help: HelpTextIndexerRequests,
		},
		[]string{LabelEndpoint, LabelResult},
	)
)
