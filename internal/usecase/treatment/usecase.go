// Package treatment fetches a patient's treatment sheet and turns it into a
// pre-filled rounding sheet row.
package treatment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/usecase/importer"
)

var ErrPatientID = errors.New("patient id is required")

var _ input.TreatmentFetcher = (*UseCase)(nil)

type Config struct {
	BaseURL    string
	Department string

	NavigateTimeout time.Duration
	IdleTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://app.vetradar.com",
		Department:      "Neurology & Neurosurgery",
		NavigateTimeout: 30 * time.Second,
		IdleTimeout:     5 * time.Second,
	}
}

type UseCase struct {
	sessions input.SessionAcquirer
	// store is optional; it supplies demographics from the last import.
	store  output.PatientStore
	logger output.LoggerPort
	cfg    Config
}

func New(sessions input.SessionAcquirer, store output.PatientStore, logger output.LoggerPort, cfg Config) *UseCase {
	return &UseCase{sessions: sessions, store: store, logger: logger, cfg: cfg}
}

func (uc *UseCase) FetchTreatment(ctx context.Context, creds entity.Credentials, patientID string) (*entity.TreatmentReport, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrPatientID
	}
	log := uc.logger.WithField("patient", patientID)

	sess, err := uc.sessions.Acquire(ctx, creds)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	page := sess.Page

	navCtx, cancel := context.WithTimeout(ctx, uc.cfg.NavigateTimeout)
	err = page.Navigate(navCtx, uc.cfg.BaseURL+"/patient/"+url.PathEscape(patientID)+"/treatment")
	cancel()
	if err != nil {
		return nil, fmt.Errorf("open treatment sheet: %w", err)
	}
	page.WaitIdle(ctx, uc.cfg.IdleTimeout)

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read treatment sheet: %w", err)
	}
	sheet, err := ParseSheet(html)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch treatment sheet: %w", err)
	}
	sheet.PatientID = patientID
	sheet.Patient = uc.known(ctx, patientID, log)
	if sheet.PatientName == "" && sheet.Patient != nil {
		sheet.PatientName = sheet.Patient.Name
	}

	log.Info("Treatment sheet fetched", "medications", len(sheet.Medications), "fluids", len(sheet.Fluids))
	return &entity.TreatmentReport{Sheet: sheet, Rounding: Rounding(sheet)}, nil
}

// known returns the patient from the stored snapshot, or nil.
func (uc *UseCase) known(ctx context.Context, id string, log output.LoggerPort) *entity.Patient {
	if uc.store == nil {
		return nil
	}
	snap, err := uc.store.LoadSnapshot(ctx, uc.cfg.Department)
	if err != nil {
		if !errors.Is(err, output.ErrSnapshotNotFound) {
			log.Warn("Snapshot lookup failed", "error", err)
		}
		return nil
	}
	p, ok := importer.Lookup(snap.Patients, id)
	if !ok {
		return nil
	}
	return &p
}
