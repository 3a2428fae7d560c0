// Package metrics exposes upload counters in Prometheus format.
//
// A Collector owns its own registry so that several servers (and tests) can
// run in one process without clashing on the global default registry.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sagarc03/camupload"
)

const namespace = "camupload"

// Rejection reasons reported by UploadRejected.
const (
	ReasonAuth        = "auth"
	ReasonContentType = "content_type"
	ReasonTooLarge    = "too_large"
	ReasonStorage     = "storage"
)

// Collector records request and upload metrics.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	uploads  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	bytes    prometheus.Counter
}

// NewCollector creates a Collector with Go runtime and process collectors
// registered next to the upload metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of stored images by site and camera.",
		}, []string{"site", "camera"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Total number of uploads that were not stored, by reason.",
		}, []string{"reason"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_bytes_total",
			Help:      "Total number of image bytes written to disk.",
		}),
	}

	c.registry.MustRegister(
		c.requests,
		c.uploads,
		c.rejected,
		c.bytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// RequestHandled counts a finished request. The method label is one of
// GET, HEAD, POST or OTHER.
func (c *Collector) RequestHandled(method camupload.Method, status int) {
	c.requests.WithLabelValues(method.String(), strconv.Itoa(status)).Inc()
}

// UploadStored counts a stored image and its size.
func (c *Collector) UploadStored(site, camera string, bytes int64) {
	c.uploads.WithLabelValues(site, camera).Inc()
	if bytes > 0 {
		c.bytes.Add(float64(bytes))
	}
}

// UploadRejected counts an upload that was answered without storing it.
func (c *Collector) UploadRejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an http.Handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
