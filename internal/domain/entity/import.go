package entity

import "time"

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportRun is one pass over the patient list of a department.
type ImportRun struct {
	ID         string       `json:"id"`
	Department string       `json:"department"`
	Status     ImportStatus `json:"status"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at,omitempty"`
	Session    *Session     `json:"session,omitempty"`
	Patients   []Patient    `json:"patients"`
	Duplicates int          `json:"duplicates"`
	Error      string       `json:"error,omitempty"`
}

// PatientSnapshot is the last stored patient list of a department.
type PatientSnapshot struct {
	Department string    `json:"department"`
	Patients   []Patient `json:"patients"`
	StoredAt   time.Time `json:"stored_at"`
}

// SyncResult is a refreshed patient list. Patients missing from the fresh
// import keep their previous data and are counted as Kept.
type SyncResult struct {
	Patients  []Patient `json:"patients"`
	Refreshed int       `json:"refreshed"`
	Kept      int       `json:"kept"`
	Error     string    `json:"error,omitempty"`
}
