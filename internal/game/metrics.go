package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hand outcomes reported by the hands_finished_total counter.
const (
	OutcomePlayed     = "played"
	OutcomeAllPassed  = "all_passed"
	OutcomeTrialThree = "trial_three"
)

type engineMetrics struct {
	gamesStarted  prometheus.Counter
	handsFinished *prometheus.CounterVec
	actions       *prometheus.CounterVec
	rejected      prometheus.Counter
	activeGames   prometheus.Gauge
}

func newEngineMetrics(reg prometheus.Registerer) *engineMetrics {
	factory := promauto.With(reg)
	return &engineMetrics{
		gamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tarok_games_started_total",
			Help: "Total number of hands dealt by the engine",
		}),
		handsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tarok_hands_finished_total",
			Help: "Total number of hands that reached a terminal state, by outcome",
		}, []string{"outcome"}),
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tarok_actions_applied_total",
			Help: "Total number of actions applied, chance included, by phase",
		}, []string{"phase"}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "tarok_actions_rejected_total",
			Help: "Total number of illegal actions submitted by players",
		}),
		activeGames: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tarok_active_games",
			Help: "Count of hands held by the engine",
		}),
	}
}

func (m *engineMetrics) GameStarted() {
	m.gamesStarted.Inc()
	m.activeGames.Inc()
}

func (m *engineMetrics) GameRemoved() {
	m.activeGames.Dec()
}

func (m *engineMetrics) HandFinished(outcome string) {
	m.handsFinished.WithLabelValues(outcome).Inc()
}

func (m *engineMetrics) ActionApplied(phase string) {
	m.actions.WithLabelValues(phase).Inc()
}

func (m *engineMetrics) ActionRejected() {
	m.rejected.Inc()
}
