package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DispatchStagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campgw_dispatch_stages_total",
			Help: "Dispatch lifecycle counter by stage",
		},
		[]string{"stage"}, // received|template_resolved|rendered|sent|recorded|completed|failed
	)

	DispatchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campgw_dispatch_failures_total",
			Help: "Failed dispatches by failure kind",
		},
		[]string{"reason"}, // template_not_found|gateway_error|persistence_error|...
	)

	AuditEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campgw_audit_events_total",
			Help: "Dispatch events consumed from Kafka by outcome",
		},
		[]string{"result"}, // written|dropped
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		DispatchStagesTotal,
		DispatchFailuresTotal,
		AuditEventsTotal,
	)
}
