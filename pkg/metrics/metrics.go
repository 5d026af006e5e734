package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics counts engine activity: mutations, policy rejections and
// derived-view recomputations. All methods are nil-safe so engines can run
// without a registry wired in.
type EngineMetrics struct {
	mutations  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	recomputes *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_mutations_total",
		Help: "Mutations applied to a source store.",
	}, []string{"engine", "op"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_rejections_total",
		Help: "Mutations rejected by policy.",
	}, []string{"engine", "reason"})
	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_recomputes_total",
		Help: "Derived view recomputations.",
	}, []string{"view"})
	reg.MustRegister(mutations, rejections, recomputes)
	return &EngineMetrics{
		mutations:  mutations,
		rejections: rejections,
		recomputes: recomputes,
	}
}

// IncMutation counts an applied mutation for the named engine operation.
func (m *EngineMetrics) IncMutation(engine, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(engine), normalizeLabel(op)).Inc()
}

// IncRejection counts a rejected-by-policy outcome.
func (m *EngineMetrics) IncRejection(engine, reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(engine), normalizeLabel(reason)).Inc()
}

// IncRecompute counts a derived view recomputation.
func (m *EngineMetrics) IncRecompute(view string) {
	if m == nil || m.recomputes == nil {
		return
	}
	m.recomputes.WithLabelValues(normalizeLabel(view)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
