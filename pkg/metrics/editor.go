package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Save outcomes.
const (
	SaveOutcomeSuccess     = "success"
	SaveOutcomeConflict    = "conflict"
	SaveOutcomeRateLimited = "rate_limited"
	SaveOutcomeFailure     = "failure"
)

// EditorMetrics records editor session activity.
type EditorMetrics struct {
	saves  *prometheus.CounterVec
	issues prometheus.Counter
}

// NewEditorMetrics registers the editor metrics on the provided registerer.
func NewEditorMetrics(reg prometheus.Registerer) *EditorMetrics {
	if reg == nil {
		return &EditorMetrics{}
	}
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "theme_saves",
		Help: "Theme save attempts by kind and outcome.",
	}, []string{"kind", "outcome"})
	issues := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "theme_normalization_issues",
		Help: "Raw values replaced by defaults while loading themes.",
	})
	reg.MustRegister(saves, issues)
	return &EditorMetrics{saves: saves, issues: issues}
}

// IncSave counts a save of the given kind ("full" or "header") and outcome.
func (e *EditorMetrics) IncSave(kind, outcome string) {
	if e == nil || e.saves == nil {
		return
	}
	e.saves.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// AddIssues counts normalization issues reported for a load.
func (e *EditorMetrics) AddIssues(n int) {
	if e == nil || e.issues == nil || n <= 0 {
		return
	}
	e.issues.Add(float64(n))
}
