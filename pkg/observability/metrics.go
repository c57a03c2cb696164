package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/labtour/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	SceneVisits  *prometheus.CounterVec
	Completions  prometheus.Counter
	Resets       prometheus.Counter
	StateUpdates *prometheus.CounterVec
	Progress     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SceneVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labtour_scene_visits_total",
				Help: "Total number of scene entries",
			},
			[]string{"scene", "kind"},
		),
		Completions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "labtour_walkthrough_completions_total",
			Help: "Total number of advance calls on the last scene",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "labtour_walkthrough_resets_total",
			Help: "Total number of walkthrough resets",
		}),
		StateUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labtour_state_updates_total",
				Help: "Total number of global state writes",
			},
			[]string{"key"},
		),
		Progress: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "labtour_scene_index",
			Help:    "Index of the scene entered",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SceneVisits, m.Completions, m.Resets, m.StateUpdates, m.Progress)
	}
	return m
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSceneEnter: func(_ context.Context, e *domain.SceneEvent) {
			m.SceneVisits.WithLabelValues(e.Scene, e.Kind.String()).Inc()
			m.Progress.Observe(float64(e.Index))
		},
		OnComplete: func(_ context.Context, _ *domain.SceneEvent) {
			m.Completions.Inc()
		},
		OnReset: func(_ context.Context, _ *domain.SceneEvent) {
			m.Resets.Inc()
		},
		OnStateUpdate: func(_ context.Context, e *domain.UpdateEvent) {
			m.StateUpdates.WithLabelValues(e.Key).Inc()
		},
	}
}

// LoggingHooks returns lifecycle hooks that log every event at info level.
// Values written to the global state are not logged, only their keys.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	scene := func(msg string) func(context.Context, *domain.SceneEvent) {
		return func(ctx context.Context, e *domain.SceneEvent) {
			logger.InfoContext(ctx, msg,
				"session_id", e.SessionID,
				"index", e.Index,
				"scene", e.Scene,
				"kind", e.Kind.String(),
			)
		}
	}
	return domain.LifecycleHooks{
		OnSceneEnter: scene("scene_enter"),
		OnSceneLeave: scene("scene_leave"),
		OnComplete:   scene("walkthrough_complete"),
		OnReset:      scene("reset"),
		OnStateUpdate: func(ctx context.Context, e *domain.UpdateEvent) {
			logger.InfoContext(ctx, "state_update",
				"session_id", e.SessionID,
				"index", e.Index,
				"key", e.Key,
			)
		},
	}
}
