package output

import "vethub-sync/internal/domain/entity"

type MetricsPort interface {
	ObserveClickAttempt(label, outcome string)
	ObserveChallenge(state entity.ChallengeState)
	ObserveImport(status entity.ImportStatus, patients int, seconds float64)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObserveClickAttempt(string, string) {}
func (NopMetrics) ObserveChallenge(entity.ChallengeState) {}
func (NopMetrics) ObserveImport(entity.ImportStatus, int, float64) {}
