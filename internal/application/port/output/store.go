package output

import (
	"context"
	"errors"

	"vethub-sync/internal/domain/entity"
)

var ErrSnapshotNotFound = errors.New("patient snapshot not found")

type PatientStore interface {
	SaveSnapshot(ctx context.Context, snapshot entity.PatientSnapshot) error
	// LoadSnapshot returns ErrSnapshotNotFound when nothing is stored.
	LoadSnapshot(ctx context.Context, department string) (*entity.PatientSnapshot, error)
}
