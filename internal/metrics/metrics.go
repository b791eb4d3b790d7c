package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ActiveSessions is the number of sessions held in the session store.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_active_sessions",
			Help: "Number of sessions currently held by the session store",
		},
	)

	// MessagesPosted counts messages accepted by POST /api/messages.
	MessagesPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_posted_total",
			Help: "Total number of chat messages posted",
		},
	)

	// UserEvents counts account lifecycle events (registered, login, login_failed, deleted, promoted).
	UserEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_user_events_total",
			Help: "Total number of account events by kind",
		},
		[]string{"event"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ActiveSessions, MessagesPosted, UserEvents)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/admin/users/12 -> /api/admin/users/{id}, /api/admin/users/12/make-admin -> /api/admin/users/{id}/make-admin.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetActiveSessions reports the current session count.
func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}

// IncMessagesPosted increments the posted message counter.
func IncMessagesPosted() {
	MessagesPosted.Inc()
}

// IncUserEvent increments the account event counter for event.
func IncUserEvent(event string) {
	UserEvents.WithLabelValues(event).Inc()
}
