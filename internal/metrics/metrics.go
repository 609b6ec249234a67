package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "document_uploads_total",
	Help: "Total number of uploaded documents labelled by outcome",
}, []string{"outcome"})

var timeToResult = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "document_time_to_result_seconds",
	Help:    "Time from upload until the processed result appeared.",
	Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
}, []string{"outcome"})

func RecordUpload(outcome string) {
	uploadsTotal.WithLabelValues(outcome).Inc()
}

func ObserveTimeToResult(outcome string, elapsed time.Duration) {
	timeToResult.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
