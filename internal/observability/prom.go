package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	// DB
	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec

	// Standups
	StandupWrites       *prometheus.CounterVec
	BlockerTransitions  *prometheus.CounterVec
	CacheLookups        *prometheus.CounterVec
	NotificationResults *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "standupbot",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "standupbot",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "standupbot",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		DbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "standupbot",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DbErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "standupbot",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		StandupWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "standupbot",
				Subsystem: "standups",
				Name:      "writes_total",
				Help:      "Standup write attempts by operation and outcome.",
			},
			[]string{"op", "result"}, // result=ok|conflict|validation|not_found|error
		),
		BlockerTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "standupbot",
				Subsystem: "standups",
				Name:      "blocker_transitions_total",
				Help:      "Blocker status changes by target status.",
			},
			[]string{"status"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "standupbot",
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Read cache lookups by key family and result.",
			},
			[]string{"family", "result"}, // result=hit|miss
		),
		NotificationResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "standupbot",
				Subsystem: "notifications",
				Name:      "results_total",
				Help:      "Blocker notification outcomes.",
			},
			[]string{"result"}, // result=sent|failed|circuit_open
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.DbQueryDuration, p.DbErrorsTotal,
		p.StandupWrites, p.BlockerTransitions, p.CacheLookups, p.NotificationResults,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// The helpers below are nil-safe so components can run without metrics.

func (p *Prom) ObserveWrite(op, result string) {
	if p == nil {
		return
	}
	p.StandupWrites.WithLabelValues(op, result).Inc()
}

func (p *Prom) ObserveBlockerTransition(status string) {
	if p == nil {
		return
	}
	p.BlockerTransitions.WithLabelValues(status).Inc()
}

func (p *Prom) ObserveCache(family string, hit bool) {
	if p == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.CacheLookups.WithLabelValues(family, result).Inc()
}

func (p *Prom) ObserveNotification(result string) {
	if p == nil {
		return
	}
	p.NotificationResults.WithLabelValues(result).Inc()
}
