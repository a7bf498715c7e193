package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"service-rider-web/internal/apperr"
	"service-rider-web/internal/domain"
)

// ServerPersister keeps the record in a Repository; the cookie only carries a random id.
type ServerPersister struct {
	ids    sessions.Store
	repo   Repository
	maxAge time.Duration
	now    func() time.Time
}

// NewServerPersister returns a Persister that stores records in repo.
func NewServerPersister(ids sessions.Store, repo Repository, maxAge time.Duration) *ServerPersister {
	return &ServerPersister{ids: ids, repo: repo, maxAge: maxAge, now: time.Now}
}

func (p *ServerPersister) Load(r *http.Request) (domain.Session, error) {
	s, err := p.ids.Get(r, RecordName)
	if err != nil {
		return domain.ClearedSession(), fmt.Errorf("session: read cookie: %w", err)
	}
	id, _ := s.Values[idValue].(string)
	if id == "" {
		return domain.ClearedSession(), nil
	}
	rec, err := p.repo.Get(r.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		return domain.ClearedSession(), nil
	}
	if err != nil {
		return domain.ClearedSession(), fmt.Errorf("session: load %s: %w", id, err)
	}
	return rec, nil
}

func (p *ServerPersister) Save(w http.ResponseWriter, r *http.Request, rec domain.Session) error {
	s, _ := p.ids.Get(r, RecordName)
	id, _ := s.Values[idValue].(string)
	if id == "" {
		id = uuid.NewString()
		s.Values[idValue] = id
		if err := s.Save(r, w); err != nil {
			return fmt.Errorf("session: write cookie: %w", err)
		}
	}
	// The record must land even when the client has already gone away.
	ctx := context.WithoutCancel(r.Context())
	if err := p.repo.Put(ctx, id, rec, p.now().Add(p.maxAge)); err != nil {
		return fmt.Errorf("session: store %s: %w", id, err)
	}
	return nil
}
