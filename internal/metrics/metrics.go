package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai_teacher_generation_duration_seconds",
		Help:    "Duration of prompt-to-canvas generations",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"status"})

	generationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_teacher_generation_total",
		Help: "Generations grouped by outcome",
	}, []string{"status"})

	commandsDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_teacher_commands_decoded_total",
		Help: "Drawing commands decoded from model output grouped by type",
	}, []string{"type"})

	framesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_teacher_frames_dropped_total",
		Help: "Malformed stream frames silently discarded by the decoder",
	})

	typesetDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai_teacher_typeset_duration_seconds",
		Help:    "Duration of external equation typesetting calls",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"status"})
)

// ObserveGeneration records the duration and outcome of one generation.
func ObserveGeneration(status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}
	generationDuration.WithLabelValues(status).Observe(duration.Seconds())
	generationTotal.WithLabelValues(status).Inc()
}

// ObserveCommand counts one decoded command by its type tag.
func ObserveCommand(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	commandsDecoded.WithLabelValues(kind).Inc()
}

// ObserveDroppedFrame counts one silently discarded frame.
func ObserveDroppedFrame() {
	framesDropped.Inc()
}

// ObserveTypeset records one equation typesetting attempt.
func ObserveTypeset(status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}
	typesetDuration.WithLabelValues(status).Observe(duration.Seconds())
}
