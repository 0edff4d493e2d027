package input

import (
	"context"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

// Session is an authenticated page. The caller owns it and must Close it.
type Session struct {
	Info entity.Session
	Page output.PagePort
}

func (s *Session) Close() error {
	if s == nil || s.Page == nil {
		return nil
	}
	return s.Page.Close()
}

type SessionAcquirer interface {
	Acquire(ctx context.Context, creds entity.Credentials) (*Session, error)
}
