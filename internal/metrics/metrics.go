package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	GuessesSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "myus_guesses_submitted_total", Help: "Total guesses accepted into the ledger"},
	)
	GuessesCorrect = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "myus_guesses_correct_total", Help: "Total correct guesses"},
	)
	TeamsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "myus_teams_created_total", Help: "Total teams created"},
	)
)

func Register() {
	prometheus.MustRegister(GuessesSubmitted, GuessesCorrect, TeamsCreated)
}
