// Package metrics holds the process-wide prometheus collectors, exposed on
// the status site's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modwarden_commands_dispatched_total",
		Help: "Interaction events dispatched, by outcome.",
	}, []string{"outcome"})

	CasesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modwarden_cases_appended_total",
		Help: "Case ledger records appended, by kind.",
	}, []string{"kind"})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modwarden_notifications_failed_total",
		Help: "Audit notification sends that failed (best-effort channel).",
	})
)
