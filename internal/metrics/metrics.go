// Package metrics exposes certification counters in the Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sensoringest"

// Recorder counts certification runs and the QA issues they raise.
// It satisfies service.Recorder.
type Recorder struct {
	registry       *prometheus.Registry
	certifications *prometheus.CounterVec
	issues         *prometheus.CounterVec
	samples        prometheus.Histogram
}

// New builds a Recorder on its own registry, together with the Go runtime and
// process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		certifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certifications_total",
			Help:      "Certification runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qa_issues_total",
			Help:      "QA issues reported, by kind.",
		}, []string{"kind"}),
		samples: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "samples_per_certification",
			Help:      "Samples in each certified series.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
		}),
	}
	r.registry.MustRegister(
		r.certifications,
		r.issues,
		r.samples,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) CertificationDone(mode, outcome string, samples int) {
	r.certifications.WithLabelValues(mode, outcome).Inc()
	if samples > 0 {
		r.samples.Observe(float64(samples))
	}
}

func (r *Recorder) IssuesFound(kind string, n int) {
	if n <= 0 {
		return
	}
	r.issues.WithLabelValues(kind).Add(float64(n))
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
