package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PromosShown = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_shown_total",
			Help: "Promos surfaced, by feature",
		}, []string{"feature"},
	)
	PromosNotShown = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_not_shown_total",
			Help: "Promo attempts that did not surface, by feature and reason",
		}, []string{"feature", "reason"},
	)
	PromosEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_ended_total",
			Help: "Promo runs ended, by close reason",
		}, []string{"reason"},
	)
	PromoVisibleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "promo_visible_duration_seconds",
		Help:    "How long promo bubbles stayed visible",
		Buckets: prometheus.DefBuckets,
	})
	TutorialStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_tutorial_starts_total",
			Help: "Tutorials launched from promos, by tutorial id",
		}, []string{"tutorial"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_http_requests_total",
			Help: "Total HTTP requests to the promo surface",
		}, []string{"code"},
	)
	Latency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "promo_http_request_duration_seconds",
		Help:    "Request latency seconds",
		Buckets: prometheus.DefBuckets,
	})
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "promo_http_in_flight",
		Help: "In-flight HTTP requests",
	})
)

func init() {
	prometheus.MustRegister(
		PromosShown, PromosNotShown, PromosEnded, PromoVisibleDuration,
		TutorialStarts, RequestsTotal, Latency, InFlight,
	)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

type rec struct {
	http.ResponseWriter
	code int
}

func (r *rec) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func Measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		rr := &rec{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rr, r)

		Latency.Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(strconv.Itoa(rr.code)).Inc()
	})
}
