package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignupsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_signups_accepted_total",
			Help: "number of signups admitted",
		},
	)

	SignupsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_signups_rejected_total",
			Help: "number of signups rejected, by reason",
		},
		[]string{"reason"},
	)

	Withdrawals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_withdrawals_total",
			Help: "number of signups removed by their owner",
		},
	)

	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_status_transitions_total",
			Help: "number of moderation decisions, by resulting status",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(SignupsAccepted, SignupsRejected, Withdrawals, StatusTransitions)
}
