package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-rider-web/internal/apperr"
	"service-rider-web/internal/domain"
)

// SessionRepo stores session records in rider_sessions.
type SessionRepo struct{ db *pgxpool.Pool }

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *pgxpool.Pool) *SessionRepo { return &SessionRepo{db: db} }

// Get returns the unexpired record stored under id or apperr.ErrNotFound.
func (r *SessionRepo) Get(ctx context.Context, id string) (domain.Session, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT record FROM rider_sessions WHERE id=$1 AND expires_at > now()`, id,
	).Scan(&raw)
	if err != nil {
		if IsNotFound(err) {
			return domain.Session{}, apperr.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	var rec domain.Session
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return rec, nil
}

// Put inserts or replaces the record stored under id.
func (r *SessionRepo) Put(ctx context.Context, id string, rec domain.Session, expiresAt time.Time) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO rider_sessions(id, record, expires_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE
        SET record = EXCLUDED.record,
            expires_at = EXCLUDED.expires_at,
            updated_at = now()
    `, id, raw, expiresAt)
	if err != nil {
		return fmt.Errorf("put session %s: %w", id, err)
	}
	return nil
}

// Delete removes the record stored under id.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM rider_sessions WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// DeleteExpired purges expired records and returns how many were removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM rider_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return ct.RowsAffected(), nil
}
