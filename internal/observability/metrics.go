package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Frame results recorded at the ingestion boundary.
const (
	FrameDispatched = "dispatched"
	FrameIgnored    = "ignored"
	FrameUntargeted = "untargeted"
)

var (
	registerOnce sync.Once

	frames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animus",
			Subsystem: "control",
			Name:      "frames_total",
			Help:      "Control frames received, by ingestion result.",
		},
		[]string{"node", "result"},
	)
	reports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animus",
			Subsystem: "control",
			Name:      "reports_total",
			Help:      "Reports produced, by action and outcome.",
		},
		[]string{"node", "action", "outcome"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "animus",
			Subsystem: "control",
			Name:      "dispatch_duration_seconds",
			Help:      "Runtime time spent handling one action.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "action"},
	)
	replyErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animus",
			Subsystem: "control",
			Name:      "reply_errors_total",
			Help:      "Replies that could not be encoded or written.",
		},
		[]string{"node", "kind"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "animus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "animus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "route", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(frames, reports, dispatchDuration, replyErrors, httpRequests, httpDuration)
	})
}

func RecordFrame(node, result string) {
	RegisterMetrics()
	frames.WithLabelValues(node, result).Inc()
}

func RecordReport(node, action, outcome string, duration time.Duration) {
	RegisterMetrics()
	reports.WithLabelValues(node, action, outcome).Inc()
	dispatchDuration.WithLabelValues(node, action).Observe(duration.Seconds())
}

// RecordReplyError counts a reply lost to an encode or io failure.
func RecordReplyError(node, kind string) {
	RegisterMetrics()
	replyErrors.WithLabelValues(node, kind).Inc()
}

func RecordHTTPRequest(node, method, route string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, route, statusLabel).Observe(duration.Seconds())
}
