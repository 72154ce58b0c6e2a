package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// consoleMetrics counts logins and roster mutations on a private registry
type consoleMetrics struct {
	registry  *prometheus.Registry
	logins    *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

func newConsoleMetrics() *consoleMetrics {
	m := &consoleMetrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Name:      "roster_mutations_total",
			Help:      "Roster mutations by operation and result.",
		}, []string{"op", "result"}),
	}
	m.registry.MustRegister(m.logins, m.mutations)
	return m
}

func (m *consoleMetrics) login(ok bool) {
	m.logins.WithLabelValues(result(ok)).Inc()
}

func (m *consoleMetrics) mutation(op string, ok bool) {
	m.mutations.WithLabelValues(op, result(ok)).Inc()
}

func (m *consoleMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
