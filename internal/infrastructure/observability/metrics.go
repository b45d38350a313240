package observability

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver exports upload pipeline metrics to Prometheus.
type PrometheusObserver struct {
	stageDuration  *prometheus.HistogramVec
	uploadDuration *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
	storedBytes    prometheus.Counter
	cleanups       *prometheus.CounterVec
	inFlight       prometheus.Gauge
}

// NewPrometheusObserver registers the pipeline metrics on reg, reusing
// collectors that are already registered.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "listing_images"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &PrometheusObserver{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each upload pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "End to end latency of upload pipeline executions.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload pipeline executions by result code.",
		}, []string{"code"}),
		storedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_bytes_total",
			Help:      "Bytes of processed images written to storage.",
		}),
		cleanups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_files_total",
			Help:      "Files handled by compensation after failed uploads.",
		}, []string{"result"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "listings_in_flight",
			Help:      "Listings with an upload currently holding their slot.",
		}),
	}

	var err error
	if o.stageDuration, err = registerCollector(reg, o.stageDuration); err != nil {
		return nil, err
	}
	if o.uploadDuration, err = registerCollector(reg, o.uploadDuration); err != nil {
		return nil, err
	}
	if o.uploads, err = registerCollector(reg, o.uploads); err != nil {
		return nil, err
	}
	if o.storedBytes, err = registerCollector(reg, o.storedBytes); err != nil {
		return nil, err
	}
	if o.cleanups, err = registerCollector(reg, o.cleanups); err != nil {
		return nil, err
	}
	if o.inFlight, err = registerCollector(reg, o.inFlight); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *PrometheusObserver) RecordStage(stage string, duration time.Duration) {
	o.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, sizeBytes int64, code string) {
	outcome := "success"
	if code != "" {
		outcome = "failure"
	} else {
		code = "OK"
		o.storedBytes.Add(float64(sizeBytes))
	}
	o.uploadDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	o.uploads.WithLabelValues(code).Inc()
}

func (o *PrometheusObserver) RecordCleanup(keys int, failed int) {
	o.cleanups.WithLabelValues("deleted").Add(float64(keys - failed))
	if failed > 0 {
		o.cleanups.WithLabelValues("failed").Add(float64(failed))
	}
}

func (o *PrometheusObserver) RecordInFlight(listings int) {
	o.inFlight.Set(float64(listings))
}

func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("registering upload metric: %w", err)
	}
	return c, nil
}
