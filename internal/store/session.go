package store

import (
	"context"

	"github.com/nutriplan/backend/internal/models"
)

const sessionKey = "nutriplan_session"

// SessionRepository persists the single active session slot.
type SessionRepository struct {
	rs RecordStore
}

func NewSessionRepository(rs RecordStore) *SessionRepository {
	return &SessionRepository{rs: rs}
}

func (r *SessionRepository) Get(ctx context.Context) (models.Session, bool, error) {
	var session models.Session
	found, err := loadJSON(ctx, r.rs, sessionKey, &session)
	return session, found, err
}

func (r *SessionRepository) Put(ctx context.Context, session models.Session) error {
	return saveJSON(ctx, r.rs, sessionKey, session)
}

// Clear removes the session slot; clearing an empty slot is a no-op.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.rs.Delete(ctx, sessionKey)
}
