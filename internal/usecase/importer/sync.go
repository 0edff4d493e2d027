package importer

import (
	"context"
	"fmt"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/domain/entity"
)

// Lookup finds a patient by slug ID, VetRadar patient ID or full name.
func Lookup(patients []entity.Patient, id string) (entity.Patient, bool) {
	if id == "" {
		return entity.Patient{}, false
	}
	for _, p := range patients {
		if p.ID == id || p.Name == id || (p.PatientID != "" && p.PatientID == id) {
			return p, true
		}
	}
	return entity.Patient{}, false
}

func (uc *UseCase) ImportPatient(ctx context.Context, creds entity.Credentials, id string) (*entity.Patient, error) {
	run, err := uc.Import(ctx, creds)
	if err != nil {
		return nil, err
	}
	p, ok := Lookup(run.Patients, id)
	if !ok {
		uc.logger.Warn("Patient not in import", "patient", id, "run_id", run.ID)
		return nil, fmt.Errorf("%w: %s", input.ErrPatientNotFound, id)
	}
	return &p, nil
}

func (uc *UseCase) Sync(ctx context.Context, creds entity.Credentials, existing []entity.Patient) (*entity.SyncResult, error) {
	res := &entity.SyncResult{Patients: make([]entity.Patient, 0, len(existing))}

	run, err := uc.Import(ctx, creds)
	if err != nil {
		res.Patients = append(res.Patients, existing...)
		res.Kept = len(existing)
		res.Error = err.Error()
		uc.logger.Warn("Sync failed, keeping existing data", "patients", len(existing), "error", err)
		return res, err
	}

	for _, old := range existing {
		fresh, ok := Lookup(run.Patients, old.ID)
		if !ok && old.PatientID != "" {
			fresh, ok = Lookup(run.Patients, old.PatientID)
		}
		if !ok {
			uc.logger.Warn("Could not sync patient, keeping existing data", "patient", old.Name)
			res.Patients = append(res.Patients, old)
			res.Kept++
			continue
		}
		res.Patients = append(res.Patients, fresh)
		res.Refreshed++
	}
	uc.logger.Info("Sync complete", "refreshed", res.Refreshed, "kept", res.Kept)
	return res, nil
}
