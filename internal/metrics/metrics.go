// Package metrics holds the prometheus collectors for rendering and
// connection activity. They are registered on the default registry and
// exposed by the watch command when --metrics-addr is set.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Rendering metrics
	MessagesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widgetchat_messages_rendered_total",
			Help: "Total messages rendered",
		},
		[]string{"kind"},
	)

	MarkdownFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "widgetchat_markdown_fallbacks_total",
			Help: "Markdown renders that fell back to escaped preformatted text",
		},
	)

	MarkdownRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "widgetchat_markdown_render_duration_seconds",
			Help:    "Markdown render duration",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	// Connection metrics
	ConnectionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widgetchat_connection_transitions_total",
			Help: "Connection state transitions by target state",
		},
		[]string{"state"},
	)

	RetryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widgetchat_retry_requests_total",
			Help: "Manual retry requests",
		},
		[]string{"outcome"}, // "issued" or "suppressed"
	)

	TransportFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widgetchat_transport_frames_total",
			Help: "Frames read from the transport",
		},
		[]string{"result"}, // "decoded" or "dropped"
	)
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})
}
