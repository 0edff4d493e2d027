// Package cache stores the latest patient snapshot per department.
package cache

import (
	"context"
	"strings"
	"sync"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

var _ output.PatientStore = (*MemoryStore)(nil)

// MemoryStore keeps snapshots for the lifetime of the process. Used when no
// redis address is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]entity.PatientSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]entity.PatientSnapshot)}
}

func (s *MemoryStore) SaveSnapshot(ctx context.Context, snapshot entity.PatientSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.Patients = append([]entity.Patient(nil), snapshot.Patients...)
	s.snapshots[departmentKey(snapshot.Department)] = snapshot
	return nil
}

func (s *MemoryStore) LoadSnapshot(ctx context.Context, department string) (*entity.PatientSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[departmentKey(department)]
	if !ok {
		return nil, output.ErrSnapshotNotFound
	}
	snap.Patients = append([]entity.Patient(nil), snap.Patients...)
	return &snap, nil
}

// departmentKey folds case and spacing so "Neurology  & neurosurgery" and
// "Neurology & Neurosurgery" share a snapshot.
func departmentKey(department string) string {
	return strings.ToLower(strings.Join(strings.Fields(department), " "))
}
