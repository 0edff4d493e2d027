package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/logger"
)

type handler struct {
	cfg    *Config
	logger output.LoggerPort
}

func newHandler(cfg *Config) *handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &handler{cfg: cfg, logger: log}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

type treatmentRequest struct {
	credentialsRequest
	PatientID string `json:"patientId"`
}

type syncRequest struct {
	credentialsRequest
	Patients []entity.Patient `json:"patients"`
}

type challengeResponse struct {
	State      entity.ChallengeState `json:"state"`
	Via        string                `json:"via,omitempty"`
	CellsFound int                   `json:"cells_found"`
}

type sessionResponse struct {
	SessionID string             `json:"session_id"`
	URL       string             `json:"url"`
	Challenge *challengeResponse `json:"challenge,omitempty"`
}

type errorResponse struct {
	Error string            `json:"error"`
	Run   *entity.ImportRun `json:"run,omitempty"`
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateSession handles POST /api/integrations/vetradar/session. The page is
// closed before responding; only the session metadata is returned.
func (h *handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Sessions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "session acquisition not configured"})
		return
	}
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	creds, ok := h.credentials(w, req)
	if !ok {
		return
	}

	sess, err := h.cfg.Sessions.Acquire(r.Context(), creds)
	if err != nil {
		h.logger.Error("Session acquisition failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	defer sess.Close()

	resp := sessionResponse{SessionID: sess.Info.ID, URL: sess.Info.URL}
	if c := sess.Info.Challenge; c != nil {
		resp.Challenge = &challengeResponse{State: c.State, Via: c.Via, CellsFound: c.CellsFound}
	}
	writeJSON(w, http.StatusOK, resp)
}

// RunImport handles POST /api/integrations/vetradar/import.
func (h *handler) RunImport(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Importer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "import not configured"})
		return
	}
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	creds, ok := h.credentials(w, req)
	if !ok {
		return
	}

	run, err := h.cfg.Importer.Import(r.Context(), creds)
	if err != nil {
		h.logger.Error("Import failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Run: run})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetPatients handles GET /api/integrations/vetradar/patients?department=.
func (h *handler) GetPatients(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "patient store not configured"})
		return
	}
	dept := strings.TrimSpace(r.URL.Query().Get("department"))
	if dept == "" {
		dept = h.cfg.DefaultDepartment
	}

	snap, err := h.cfg.Store.LoadSnapshot(r.Context(), dept)
	switch {
	case errors.Is(err, output.ErrSnapshotNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no patients imported for " + dept})
	case err != nil:
		h.logger.Error("Snapshot load failed", "department", dept, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "snapshot unavailable"})
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

// ImportPatient handles POST /api/integrations/vetradar/patients/{id}/import.
func (h *handler) ImportPatient(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Syncer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "import not configured"})
		return
	}
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	creds, ok := h.credentials(w, req)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	patient, err := h.cfg.Syncer.ImportPatient(r.Context(), creds, id)
	switch {
	case errors.Is(err, input.ErrPatientNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case err != nil:
		h.logger.Error("Patient import failed", "patient", id, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, patient)
	}
}

// SyncPatients handles POST /api/integrations/vetradar/sync. The response
// always carries the patient list; a failed import keeps the posted data.
func (h *handler) SyncPatients(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Syncer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "sync not configured"})
		return
	}
	var req syncRequest
	if !decode(w, r, &req) {
		return
	}
	creds, ok := h.credentials(w, req.credentialsRequest)
	if !ok {
		return
	}

	res, err := h.cfg.Syncer.Sync(r.Context(), creds, req.Patients)
	if err != nil {
		h.logger.Warn("Sync kept existing patients", "error", err)
	}
	writeJSON(w, http.StatusOK, res)
}

// FetchTreatment handles POST /api/integrations/vetradar/treatment.
func (h *handler) FetchTreatment(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Treatments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "treatment sheets not configured"})
		return
	}
	var req treatmentRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PatientID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "patientId is required"})
		return
	}
	creds, ok := h.credentials(w, req.credentialsRequest)
	if !ok {
		return
	}

	report, err := h.cfg.Treatments.FetchTreatment(r.Context(), creds, req.PatientID)
	if err != nil {
		h.logger.Error("Treatment fetch failed", "patient", req.PatientID, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// decode reads an optional JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// credentials falls back to the configured defaults field by field.
func (h *handler) credentials(w http.ResponseWriter, req credentialsRequest) (entity.Credentials, bool) {
	creds := entity.Credentials{
		Username: firstNonEmpty(req.Username, h.cfg.Defaults.Username),
		Password: firstNonEmpty(req.Password, h.cfg.Defaults.Password),
		PIN:      firstNonEmpty(req.PIN, h.cfg.Defaults.PIN),
	}
	if creds.Username == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return entity.Credentials{}, false
	}
	return creds, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
