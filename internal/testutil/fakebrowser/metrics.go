package fakebrowser

import (
	"sync"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

var _ output.MetricsPort = (*Metrics)(nil)

// Metrics records observations for assertions.
type Metrics struct {
	mu         sync.Mutex
	Clicks     []string
	Challenges []entity.ChallengeState
	Imports    []entity.ImportStatus
}

func (m *Metrics) ObserveClickAttempt(label, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clicks = append(m.Clicks, label+":"+outcome)
}

func (m *Metrics) ObserveChallenge(state entity.ChallengeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Challenges = append(m.Challenges, state)
}

func (m *Metrics) ObserveImport(status entity.ImportStatus, patients int, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Imports = append(m.Imports, status)
}
