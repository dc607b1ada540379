package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liftlog",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Number of login attempts, labeled by outcome.",
	}, []string{"outcome"})

	loginThrottledCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "liftlog",
		Subsystem: "auth",
		Name:      "logins_throttled_total",
		Help:      "Number of login attempts rejected by the origin throttle.",
	})

	exercisesLoggedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "liftlog",
		Subsystem: "domain",
		Name:      "exercises_logged_total",
		Help:      "Number of exercises logged.",
	})

	commentsAddedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "liftlog",
		Subsystem: "domain",
		Name:      "comments_added_total",
		Help:      "Number of comments added.",
	})

	exercisePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "liftlog",
		Subsystem: "persistence",
		Name:      "last_exercise_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(loginCounter, loginThrottledCounter, exercisesLoggedCounter, commentsAddedCounter, exercisePersistGauge)
}

// RecordLogin counts a login attempt outcome.
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	loginCounter.WithLabelValues(outcome).Inc()
}

// RecordLoginThrottled counts a throttled login attempt.
func RecordLoginThrottled() {
	loginThrottledCounter.Inc()
}

// RecordExerciseLogged counts a logged exercise and updates the persistence
// watermark gauge.
func RecordExerciseLogged(ts time.Time) {
	exercisesLoggedCounter.Inc()
	if !ts.IsZero() {
		exercisePersistGauge.Set(float64(ts.Unix()))
	}
}

// RecordCommentAdded counts an added comment.
func RecordCommentAdded() {
	commentsAddedCounter.Inc()
}
