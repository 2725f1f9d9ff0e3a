// Package metrics defines the prometheus instruments exported on the ops
// endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal counts dispatched chat commands by command name
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneyball_commands_total",
		Help: "Chat commands dispatched, by command name.",
	}, []string{"command"})

	// CommandErrorsTotal counts commands that replied with an error
	CommandErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneyball_command_errors_total",
		Help: "Chat commands that failed, by command name.",
	}, []string{"command"})

	// LedgerEventsTotal counts appended ledger events by type
	LedgerEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneyball_ledger_events_total",
		Help: "Ledger events appended, by event type.",
	}, []string{"type"})

	// BaseballGamesTotal counts finished baseball sessions by result
	BaseballGamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneyball_baseball_games_total",
		Help: "Baseball sessions finished, by result (won, lost, killed).",
	}, []string{"result"})
)
