package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	evaluations *prometheus.CounterVec
	resolutions prometheus.Counter
	requests    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flow_condition_evaluations_total",
				Help: "Total number of condition set evaluations by result",
			},
			[]string{"result"},
		),
		resolutions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "flow_variable_resolutions_total",
				Help: "Total number of template resolutions",
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flow_http_requests_total",
				Help: "Total number of HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),
	}
	reg.MustRegister(m.evaluations, m.resolutions, m.requests)
	return m
}

func (m *metrics) observeEvaluation(result bool) {
	m.evaluations.WithLabelValues(strconv.FormatBool(result)).Inc()
}

func (m *metrics) observeResolution() {
	m.resolutions.Inc()
}

func (m *metrics) observeRequest(method string, status int) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
