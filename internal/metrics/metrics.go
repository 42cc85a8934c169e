// Package metrics defines the Prometheus collectors of the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names.
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelTool   = "tool"
	LabelSource = "source"
	LabelKind   = "kind"
)

// Fixed label values for requests that match no route or tool.
const (
	UnmatchedPath = "unmatched"
	UnknownTool   = "unknown"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// HTTPLatencyBuckets are the histogram buckets for HTTP latency in seconds.
	HTTPLatencyBuckets = []float64{.001, .005, .01, .05, .1, .5, 1}

	// ToolLatencyBuckets are the histogram buckets for tool call latency in seconds.
	ToolLatencyBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5}
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crafting_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crafting_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

// Tool metrics
var (
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crafting_tool_calls_total",
			Help: "Total number of tool calls by tool and outcome",
		},
		[]string{LabelTool, LabelStatus},
	)

	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crafting_tool_call_duration_seconds",
			Help:    "Tool call latency in seconds",
			Buckets: ToolLatencyBuckets,
		},
		[]string{LabelTool},
	)
)

// Catalog metrics
var (
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crafting_catalog_loads_total",
			Help: "Catalog load attempts by source and outcome",
		},
		[]string{LabelSource, LabelStatus},
	)

	CatalogEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crafting_catalog_entries",
			Help: "Entries in the loaded catalog by kind",
		},
		[]string{LabelKind},
	)
)
