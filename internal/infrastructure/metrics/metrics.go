package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

var _ output.MetricsPort = (*SyncMetrics)(nil)

// SyncMetrics exposes counters/histograms for click attempts, PIN
// challenges and patient imports.
type SyncMetrics struct {
	clickAttempts  *prometheus.CounterVec
	challenges     *prometheus.CounterVec
	imports        *prometheus.CounterVec
	importPatients prometheus.Gauge
	importDuration *prometheus.HistogramVec
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	m := &SyncMetrics{
		clickAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vethub",
			Subsystem: "browser",
			Name:      "click_attempts_total",
			Help:      "Guarded click attempts by button label and outcome",
		}, []string{"label", "outcome"}),
		challenges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vethub",
			Subsystem: "login",
			Name:      "pin_challenges_total",
			Help:      "PIN challenge resolutions by terminal state",
		}, []string{"state"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vethub",
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Patient import runs by status",
		}, []string{"status"}),
		importPatients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vethub",
			Subsystem: "import",
			Name:      "last_patients",
			Help:      "Patients found by the last completed import",
		}),
		importDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vethub",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Wall time of patient import runs",
			Buckets:   []float64{5, 10, 20, 30, 60, 90, 120, 180, 300},
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.clickAttempts, m.challenges, m.imports, m.importPatients, m.importDuration)
	return m
}

func (m *SyncMetrics) ObserveClickAttempt(label, outcome string) {
	if m == nil {
		return
	}
	if label == "" {
		label = "*"
	}
	m.clickAttempts.WithLabelValues(label, outcome).Inc()
}

func (m *SyncMetrics) ObserveChallenge(state entity.ChallengeState) {
	if m == nil {
		return
	}
	m.challenges.WithLabelValues(string(state)).Inc()
}

func (m *SyncMetrics) ObserveImport(status entity.ImportStatus, patients int, seconds float64) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(string(status)).Inc()
	m.importDuration.WithLabelValues(string(status)).Observe(seconds)
	if status == entity.ImportStatusCompleted {
		m.importPatients.Set(float64(patients))
	}
}
