package input

import (
	"context"
	"errors"

	"vethub-sync/internal/domain/entity"
)

var ErrPatientNotFound = errors.New("patient not found")

type PatientImporter interface {
	Import(ctx context.Context, creds entity.Credentials) (*entity.ImportRun, error)
}

type PatientSyncer interface {
	// ImportPatient returns the patient whose ID, VetRadar patient ID or name
	// equals id.
	ImportPatient(ctx context.Context, creds entity.Credentials, id string) (*entity.Patient, error)
	// Sync refreshes existing from one fresh import. It never drops a patient:
	// on failure the previous data is returned alongside the error.
	Sync(ctx context.Context, creds entity.Credentials, existing []entity.Patient) (*entity.SyncResult, error)
}

type TreatmentFetcher interface {
	FetchTreatment(ctx context.Context, creds entity.Credentials, patientID string) (*entity.TreatmentReport, error)
}
