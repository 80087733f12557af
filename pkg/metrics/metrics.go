// Package metrics exposes the service's Prometheus instrumentation.
// Counters live on the default registry; Handler serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UploadsTotal counts finished upload streams by outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qcdn",
		Name:      "uploads_total",
		Help:      "Finished upload streams by outcome.",
	}, []string{"outcome"})

	// UploadBytesTotal counts content bytes accepted by uploads.
	UploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qcdn",
		Name:      "upload_bytes_total",
		Help:      "Content bytes accepted by upload streams.",
	})

	// DownloadsTotal counts streamed downloads by outcome.
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qcdn",
		Name:      "downloads_total",
		Help:      "Streamed downloads by outcome.",
	}, []string{"outcome"})

	// WebRequestsTotal counts HTTP content fetches by status code.
	WebRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qcdn",
		Name:      "web_requests_total",
		Help:      "HTTP content fetches by status code.",
	}, []string{"code"})

	// ReplicationSubscribers tracks connected replication followers.
	ReplicationSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "qcdn",
		Name:      "replication_subscribers",
		Help:      "Currently connected replication followers.",
	})
)

// Outcome labels for UploadsTotal and DownloadsTotal.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
