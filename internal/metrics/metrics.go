package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)

	authzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Access gate decisions by outcome and reason.",
		},
		[]string{"outcome", "reason"},
	)
)

// Init registers the counters in the default registry. Call once from main.
func Init() {
	prometheus.MustRegister(loginAttempts, authzDecisions)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveLogin counts a login attempt: "success", "invalid_credentials" or
// "inactive".
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveAuthz counts an access gate decision, e.g. ("deny", "missing_token")
// or ("admit", "").
func ObserveAuthz(outcome, reason string) {
	authzDecisions.WithLabelValues(outcome, reason).Inc()
}
