package treatment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vethub-sync/internal/application/port/input"
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/infrastructure/cache"
	"vethub-sync/internal/infrastructure/logger"
	"vethub-sync/internal/testutil/fakebrowser"
)

type stubSessions struct {
	page *fakebrowser.Page
	err  error
}

func (s *stubSessions) Acquire(ctx context.Context, creds entity.Credentials) (*input.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &input.Session{Info: entity.Session{ID: "sess-1"}, Page: s.page}, nil
}

func newUseCase(sessions input.SessionAcquirer, store output.PatientStore) *UseCase {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://vetradar.test"
	cfg.NavigateTimeout = time.Second
	return New(sessions, store, logger.NewNop(), cfg)
}

func TestFetchTreatment(t *testing.T) {
	page := fakebrowser.NewPage("https://vetradar.test/patients")
	page.Source = treatmentHTML

	store := cache.NewMemoryStore()
	require.NoError(t, store.SaveSnapshot(context.Background(), entity.PatientSnapshot{
		Department: DefaultConfig().Department,
		Patients: []entity.Patient{{
			ID: "clara-iovino", Name: "Clara Iovino", PatientID: "674131",
			Species: "Canine", Age: "5y 0m", Sex: "FS", WeightKg: 23, Location: "ICU 3",
		}},
	}))

	report, err := newUseCase(&stubSessions{page: page}, store).
		FetchTreatment(context.Background(), entity.Credentials{Username: "nurse"}, " 674131 ")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://vetradar.test/patient/674131/treatment"}, page.Visited)
	assert.True(t, page.Closed)
	assert.Equal(t, "674131", report.Sheet.PatientID)
	require.NotNil(t, report.Sheet.Patient)
	assert.Equal(t, "Canine, 5y 0m, FS, 23kg", report.Rounding.Signalment)
	assert.Equal(t, "ICU", report.Rounding.Location)
	assert.Len(t, report.Sheet.Medications, 2)
}

func TestFetchTreatment_UnknownPatientStillParses(t *testing.T) {
	page := fakebrowser.NewPage("https://vetradar.test/patients")
	page.Source = treatmentHTML

	report, err := newUseCase(&stubSessions{page: page}, cache.NewMemoryStore()).
		FetchTreatment(context.Background(), entity.Credentials{}, "a/b")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://vetradar.test/patient/a%2Fb/treatment"}, page.Visited)
	assert.Nil(t, report.Sheet.Patient)
	assert.Empty(t, report.Rounding.Signalment)
}

func TestFetchTreatment_Errors(t *testing.T) {
	uc := newUseCase(&stubSessions{err: errors.New("login failed")}, nil)
	_, err := uc.FetchTreatment(context.Background(), entity.Credentials{}, "  ")
	assert.ErrorIs(t, err, ErrPatientID)

	_, err = uc.FetchTreatment(context.Background(), entity.Credentials{}, "1")
	assert.EqualError(t, err, "login failed")

	page := fakebrowser.NewPage("https://vetradar.test/patients")
	page.Source = "<p>Not found</p>"
	_, err = newUseCase(&stubSessions{page: page}, nil).FetchTreatment(context.Background(), entity.Credentials{}, "1")
	assert.ErrorIs(t, err, ErrNoSheet)
	assert.True(t, page.Closed)
}
