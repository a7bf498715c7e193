package session

import (
	"context"
	"net/http"
	"time"

	"service-rider-web/internal/domain"
)

// Persister loads and saves the session record of a request.
type Persister interface {
	Load(r *http.Request) (domain.Session, error)
	Save(w http.ResponseWriter, r *http.Request, rec domain.Session) error
}

// Repository stores records keyed by server-side session id.
type Repository interface {
	Get(ctx context.Context, id string) (domain.Session, error)
	Put(ctx context.Context, id string, rec domain.Session, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}
