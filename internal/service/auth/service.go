package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/gateway/riderapi"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/query"
	"service-rider-web/internal/session"
)

// User-visible messages.
const (
	MsgLoginFailed       = "Login failed"
	MsgInvalidCredential = "Invalid Google credential"
	MsgRiderOnly         = "Only rider accounts can access this app"
	MsgNotRider          = "Not a rider account"
	MsgLoggedOut         = "Logged out successfully"
	MsgSessionExpired    = "Session expired. Please login again."
)

var errCredential = errors.New("auth: malformed or expired credential")

// Result is the outcome of Login.
type Result struct {
	Success bool
	Error   string
}

// Service performs the session transitions: login, logout, revalidation and forced expiry.
type Service struct {
	api              authAPI
	cache            *query.Cache
	policy           domain.AccessPolicy
	operationTimeout time.Duration
	expired          counter
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a new Service. cache and expired may be nil.
func NewService(api authAPI, cache *query.Cache, policy domain.AccessPolicy, timeout time.Duration, expired counter, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		api:              api,
		cache:            cache,
		policy:           policy,
		operationTimeout: timeout,
		expired:          expired,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Login exchanges a Google ID token for a rider session.
func (s *Service) Login(ctx context.Context, h *session.Handle, credential string) Result {
	credential = strings.TrimSpace(credential)
	if err := s.precheck(credential); err != nil {
		s.logger.Warn("login rejected", logx.String("reason", "credential"), logx.Err(err))
		h.Notify(session.NoticeError, MsgInvalidCredential)
		return Result{Error: MsgInvalidCredential}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.api.LoginWithGoogle(ctx, credential)
	if err == nil && (res.User == nil || strings.TrimSpace(res.User.ID) == "" || strings.TrimSpace(res.Token) == "") {
		err = errors.New("auth: empty login response")
	}
	if err != nil {
		msg := riderapi.Message(err, MsgLoginFailed)
		s.logger.Warn("login failed", logx.Err(err))
		h.Notify(session.NoticeError, msg)
		return Result{Error: msg}
	}

	if !s.policy.Admits(res.User) {
		h.Clear()
		h.Notify(session.NoticeError, MsgRiderOnly)
		s.logger.Warn("login rejected",
			logx.String("reason", "role"),
			logx.String("role", string(res.User.Role)),
		)
		return Result{Error: MsgNotRider}
	}

	if s.cache != nil {
		s.cache.Invalidate(query.ForRider(res.User.ID))
	}
	h.Replace(domain.NewSession(*res.User, res.Token))
	h.Notify(session.NoticeSuccess, "Welcome, "+res.User.Name+"!")
	s.logger.Info("rider logged in", logx.String("event", "login"), logx.String("rider_id", res.User.ID))
	return Result{Success: true}
}

// precheck accepts only a structurally valid, unexpired JWT. Signatures are verified upstream.
func (s *Service) precheck(credential string) error {
	if credential == "" {
		return errCredential
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return errors.Join(errCredential, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return errors.Join(errCredential, err)
	}
	if exp != nil && !exp.After(s.now()) {
		return errCredential
	}
	return nil
}

// Logout clears the session unconditionally.
func (s *Service) Logout(h *session.Handle) {
	cur := h.Session()
	rider := cur.RiderID()
	h.Clear()
	if scope := cur.CacheScope(); s.cache != nil && scope != "" {
		s.cache.Invalidate(query.ForRider(scope))
	}
	h.Notify(session.NoticeSuccess, MsgLoggedOut)
	s.logger.Info("rider logged out", logx.String("event", "logout"), logx.String("rider_id", rider))
}

// CheckAuth revalidates a held token. Any failure or a non-permitted account clears the
// session without a notice of its own.
func (s *Service) CheckAuth(ctx context.Context, h *session.Handle) {
	cur := h.Session()
	if !cur.HasToken() {
		return
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		u   *domain.User
		err error
	)
	if s.cache != nil {
		u, err = query.Fetch(ctx, s.cache, query.MeKey(cur.CacheScope()), s.api.Me)
	} else {
		u, err = s.api.Me(ctx)
	}
	if h.Expired() {
		return
	}
	if err != nil || !s.policy.Admits(u) {
		s.logger.Debug("session revalidation failed", logx.String("rider_id", cur.RiderID()), logx.Err(err))
		h.Clear()
		return
	}
	if u.ID != cur.RiderID() || u.Name != cur.User.Name || u.Email != cur.User.Email || u.Role != cur.User.Role {
		h.Replace(domain.NewSession(*u, cur.Token))
	}
}

// Expire force-logs-out after a 401. Repeated and concurrent calls for one handle notify once.
func (s *Service) Expire(h *session.Handle) {
	if !h.Expire() {
		return
	}
	h.Notify(session.NoticeError, MsgSessionExpired)
	if s.expired != nil {
		s.expired.Inc()
	}
	s.logger.Info("session expired", logx.String("event", "session_expired"))
}

// ExpireFromContext expires the session bound to ctx, if any. It is the rider API 401 hook.
func (s *Service) ExpireFromContext(ctx context.Context) {
	if h := session.FromContext(ctx); h != nil {
		s.Expire(h)
	}
}
