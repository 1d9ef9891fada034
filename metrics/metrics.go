// Package metrics exports Prometheus counters for the GraphQL endpoint.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.appointy.com/phonebook"
)

const namespace = "phonebook"

// Metrics holds the request level collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "requests_total",
				Help:      "Total number of executed GraphQL requests",
			},
			[]string{"status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "request_duration_seconds",
				Help:      "GraphQL execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"status"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "errors_total",
				Help:      "Total number of GraphQL errors returned, by extensions code",
			},
			[]string{"code"},
		),
	}

	for _, c := range []prometheus.Collector{m.RequestsTotal, m.RequestDuration, m.ErrorsTotal} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering metrics")
		}
	}
	return m, nil
}

// Middleware records every request passing through the GraphQL handler.
func (m *Metrics) Middleware(next phonebook.HandlerFunc) phonebook.HandlerFunc {
	return func(ctx context.Context, req *phonebook.Request) *graphql.Result {
		start := time.Now()
		res := next(ctx, req)

		status := "ok"
		if res.HasErrors() {
			status = "error"
		}
		m.RequestsTotal.WithLabelValues(status).Inc()
		m.RequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

		for _, e := range res.Errors {
			code, _ := e.Extensions["code"].(string)
			if code == "" {
				code = "UNKNOWN"
			}
			m.ErrorsTotal.WithLabelValues(code).Inc()
		}
		return res
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
