package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DeploymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipctl",
			Name:      "deployments_total",
			Help:      "Deployments attempted, by environment",
		},
		[]string{"environment"},
	)

	DeploymentsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipctl",
			Name:      "deployments_failed_total",
			Help:      "Deployments that failed their health check, by environment",
		},
		[]string{"environment"},
	)

	RollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipctl",
			Name:      "rollbacks_total",
			Help:      "Rollbacks performed (automatic and manual), by environment",
		},
		[]string{"environment"},
	)

	HealthCheckAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipctl",
			Name:      "health_check_attempts_total",
			Help:      "Individual health check polls, by environment",
		},
		[]string{"environment"},
	)

	HealthCheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shipctl",
			Name:      "health_check_duration_seconds",
			Help:      "Wall time of one full health polling session",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"environment"},
	)
)

// StartServer exposes /metrics in the background for the lifetime of
// the invocation, so long health waits can be scraped from CI.
func StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			panic("metrics server failed: " + err.Error())
		}
	}()
}
