package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pointsAwardedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitpoints",
		Subsystem: "scoring",
		Name:      "points_awarded_total",
		Help:      "Total points granted by the weekly ledger.",
	})
	goalsCompletedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitpoints",
		Subsystem: "scoring",
		Name:      "goals_completed_total",
		Help:      "Number of goals that crossed their completion threshold.",
	})
	rewardsUnlockedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitpoints",
		Subsystem: "scoring",
		Name:      "rewards_unlocked_total",
		Help:      "Number of reward unlocks, explicit and sweep-driven.",
	})
	sessionPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitpoints",
		Subsystem: "persistence",
		Name:      "last_session_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout session persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(pointsAwardedCounter, goalsCompletedCounter, rewardsUnlockedCounter, sessionPersistGauge)
}

// RecordPointsAwarded adds to the awarded-points counter.
func RecordPointsAwarded(points int) {
	if points <= 0 {
		return
	}
	pointsAwardedCounter.Add(float64(points))
}

// RecordGoalCompleted counts a goal completion.
func RecordGoalCompleted() {
	goalsCompletedCounter.Inc()
}

// RecordRewardUnlocked counts a reward unlock.
func RecordRewardUnlocked() {
	rewardsUnlockedCounter.Inc()
}

// RecordSessionPersisted updates the persistence watermark gauge.
func RecordSessionPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	sessionPersistGauge.Set(float64(ts.Unix()))
}
