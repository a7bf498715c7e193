package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"service-rider-web/internal/domain"
)

const (
	// RecordName is the storage name of the session record.
	RecordName = "rider-auth-storage"
	// NoticesName is the cookie carrying pending notices.
	NoticesName = "rider-notices"

	recordValue = "record"
	idValue     = "sid"
)

// CookieOptions configures the cookie store.
type CookieOptions struct {
	Secret string
	MaxAge int
	Secure bool
}

// NewCookieStore builds a signed and encrypted gorilla/sessions store.
func NewCookieStore(opts CookieOptions) (*sessions.CookieStore, error) {
	hashKey, blockKey, err := DeriveKeys(opts.Secret)
	if err != nil {
		return nil, err
	}
	store := sessions.NewCookieStore(hashKey, blockKey)
	store.MaxAge(opts.MaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = opts.Secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store, nil
}

// CookiePersister keeps the whole record inside the cookie.
type CookiePersister struct {
	store sessions.Store
}

// NewCookiePersister returns a Persister over store.
func NewCookiePersister(store sessions.Store) *CookiePersister {
	return &CookiePersister{store: store}
}

func (p *CookiePersister) Load(r *http.Request) (domain.Session, error) {
	s, err := p.store.Get(r, RecordName)
	if err != nil {
		return domain.ClearedSession(), fmt.Errorf("session: read cookie: %w", err)
	}
	raw, ok := s.Values[recordValue].(string)
	if !ok || raw == "" {
		return domain.ClearedSession(), nil
	}
	return decodeRecord(raw)
}

func (p *CookiePersister) Save(w http.ResponseWriter, r *http.Request, rec domain.Session) error {
	s, _ := p.store.Get(r, RecordName)
	raw, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	s.Values[recordValue] = raw
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("session: write cookie: %w", err)
	}
	return nil
}

func encodeRecord(rec domain.Session) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("session: encode record: %w", err)
	}
	return string(b), nil
}

func decodeRecord(raw string) (domain.Session, error) {
	var rec domain.Session
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.ClearedSession(), fmt.Errorf("session: decode record: %w", err)
	}
	return rec, nil
}
