package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-rider-web/internal/apperr"
	"service-rider-web/internal/domain"
	"service-rider-web/internal/session"
	testlog "service-rider-web/internal/testutil"
)

const secret = "test-secret-0123456789abcdef"

var rider = domain.AccessPolicy{Role: domain.RoleRider}

func newStore(t *testing.T) session.Persister {
	t.Helper()
	store, err := session.NewCookieStore(session.CookieOptions{Secret: secret, MaxAge: 3600})
	require.NoError(t, err)
	return session.NewCookiePersister(store)
}

func newNotices(t *testing.T) *session.NoticeStore {
	t.Helper()
	store, err := session.NewCookieStore(session.CookieOptions{Secret: secret, MaxAge: 0})
	require.NoError(t, err)
	return session.NewNoticeStore(store)
}

// serve runs one request through the middleware, replaying cookies from the previous response.
func serve(mw func(http.Handler) http.Handler, h http.HandlerFunc, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	mw(h).ServeHTTP(rr, req)
	return rr
}

func merge(prev []*http.Cookie, next []*http.Cookie) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	for _, c := range prev {
		byName[c.Name] = c
	}
	for _, c := range next {
		byName[c.Name] = c
	}
	out := make([]*http.Cookie, 0, len(byName))
	for _, c := range byName {
		if c.MaxAge < 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func TestMiddleware_LoginPersistsAndRehydrates(t *testing.T) {
	t.Parallel()

	mw := session.Middleware(newStore(t), newNotices(t), rider, nil)

	rr := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		h := session.FromContext(r.Context())
		require.NotNil(t, h)
		require.False(t, h.Session().IsAuthenticated)
		h.Replace(riderSession())
		w.WriteHeader(http.StatusNoContent)
	}, nil)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	var seen domain.Session
	serve(mw, func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context()).Session()
	}, cookies)
	require.True(t, seen.IsAuthenticated)
	require.Equal(t, "tok-1", seen.Token)
	require.Equal(t, "Ann", seen.User.Name)
}

func TestMiddleware_LogoutPersistsClearedRecord(t *testing.T) {
	t.Parallel()

	mw := session.Middleware(newStore(t), nil, rider, nil)
	login := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Replace(riderSession())
	}, nil)

	logout := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Clear()
		http.Redirect(w, r, "/login", http.StatusFound)
	}, login.Result().Cookies())
	require.Equal(t, http.StatusFound, logout.Code)

	var seen domain.Session
	serve(mw, func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context()).Session()
	}, merge(login.Result().Cookies(), logout.Result().Cookies()))
	require.Equal(t, domain.ClearedSession(), seen)
}

func TestMiddleware_CookieWrittenBeforeBody(t *testing.T) {
	t.Parallel()

	mw := session.Middleware(newStore(t), nil, rider, nil)
	rr := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Replace(riderSession())
		_, _ = w.Write([]byte("hello"))
	}, nil)
	require.Equal(t, "hello", rr.Body.String())
	require.Contains(t, rr.Header().Get("Set-Cookie"), session.RecordName+"=")
}

func TestMiddleware_UnchangedRecordIsNotRewritten(t *testing.T) {
	t.Parallel()

	mw := session.Middleware(newStore(t), nil, rider, nil)
	rr := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}, nil)
	require.Empty(t, rr.Result().Cookies())
}

func TestMiddleware_WrongRoleRecordTreatedAsCleared(t *testing.T) {
	t.Parallel()

	p := newStore(t)
	mw := session.Middleware(p, nil, rider, nil)
	admin := domain.NewSession(domain.User{ID: "a1", Role: "admin"}, "tok")
	rr := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Replace(admin)
	}, nil)

	var seen domain.Session
	serve(mw, func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context()).Session()
	}, rr.Result().Cookies())
	require.False(t, seen.IsAuthenticated)
}

func TestMiddleware_NoticesSurviveRedirect(t *testing.T) {
	t.Parallel()

	mw := session.Middleware(newStore(t), newNotices(t), rider, nil)
	first := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Notify(session.NoticeSuccess, "Order status updated")
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
	}, nil)

	var shown []session.Notice
	second := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		shown = session.FromContext(r.Context()).TakeNotices()
		_, _ = w.Write([]byte("page"))
	}, first.Result().Cookies())
	require.Equal(t, []session.Notice{{Kind: session.NoticeSuccess, Text: "Order status updated"}}, shown)

	var again []session.Notice
	serve(mw, func(w http.ResponseWriter, r *http.Request) {
		again = session.FromContext(r.Context()).TakeNotices()
	}, merge(first.Result().Cookies(), second.Result().Cookies()))
	require.Empty(t, again)
}

func TestMiddleware_LoadErrorLogsAndClears(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	mw := session.Middleware(newStore(t), nil, rider, rec.Logger())

	var seen domain.Session
	serve(mw, func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context()).Session()
	}, []*http.Cookie{{Name: session.RecordName, Value: "tampered"}})
	require.Equal(t, domain.ClearedSession(), seen)
	require.True(t, rec.Has("warn", "session load failed"))
}

type memRepo struct {
	mu   sync.Mutex
	recs map[string]domain.Session
}

func (m *memRepo) Get(_ context.Context, id string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return domain.Session{}, apperr.ErrNotFound
	}
	return rec, nil
}

func (m *memRepo) Put(_ context.Context, id string, rec domain.Session, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[id] = rec
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	return nil
}

func TestServerPersister_StoresRecordServerSide(t *testing.T) {
	t.Parallel()

	ids, err := session.NewCookieStore(session.CookieOptions{Secret: secret, MaxAge: 3600})
	require.NoError(t, err)
	repo := &memRepo{recs: map[string]domain.Session{}}
	mw := session.Middleware(session.NewServerPersister(ids, repo, time.Hour), nil, rider, nil)

	rr := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Replace(riderSession())
	}, nil)
	require.Len(t, repo.recs, 1)
	for _, c := range rr.Result().Cookies() {
		require.NotContains(t, c.Value, "tok-1")
	}

	var seen domain.Session
	serve(mw, func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context()).Session()
	}, rr.Result().Cookies())
	require.Equal(t, "tok-1", seen.Token)
}

func TestServerPersister_UnknownIDIsCleared(t *testing.T) {
	t.Parallel()

	ids, err := session.NewCookieStore(session.CookieOptions{Secret: secret, MaxAge: 3600})
	require.NoError(t, err)
	repo := &memRepo{recs: map[string]domain.Session{}}
	p := session.NewServerPersister(ids, repo, time.Hour)
	mw := session.Middleware(p, nil, rider, nil)

	rr := serve(mw, func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Replace(riderSession())
	}, nil)
	repo.recs = map[string]domain.Session{}

	var seen domain.Session
	serve(mw, func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context()).Session()
	}, rr.Result().Cookies())
	require.Equal(t, domain.ClearedSession(), seen)
}

func TestDeriveKeys_Deterministic(t *testing.T) {
	t.Parallel()

	h1, b1, err := session.DeriveKeys(secret)
	require.NoError(t, err)
	h2, b2, err := session.DeriveKeys(secret)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Equal(t, b1, b2)
	require.Len(t, h1, 64)
	require.Len(t, b1, 32)

	h3, _, _ := session.DeriveKeys(secret + "x")
	require.NotEqual(t, h1, h3)
}
