package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	attemptsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hirehub",
		Name:      "quiz_attempts_started_total",
		Help:      "Total number of quiz attempt start/resume calls",
	})

	stepsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hirehub",
		Name:      "quiz_steps_processed_total",
		Help:      "Total number of graded answer submissions",
	}, []string{"status"})

	attemptsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hirehub",
		Name:      "quiz_attempts_completed_total",
		Help:      "Total number of finalized quiz attempts",
	})
)

func AttemptStarted() {
	attemptsStarted.Inc()
}

func StepProcessed(status string) {
	stepsProcessed.WithLabelValues(status).Inc()
}

func AttemptCompleted() {
	attemptsCompleted.Inc()
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
