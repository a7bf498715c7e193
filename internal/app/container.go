package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"service-rider-web/internal/config"
	"service-rider-web/internal/connectivity"
	"service-rider-web/internal/domain"
	"service-rider-web/internal/gateway/riderapi"
	"service-rider-web/internal/http/handlers"
	"service-rider-web/internal/http/middleware/ratelimit"
	"service-rider-web/internal/http/router"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/metrics"
	"service-rider-web/internal/query"
	"service-rider-web/internal/repository"
	"service-rider-web/internal/service/auth"
	"service-rider-web/internal/service/delivery"
	"service-rider-web/internal/service/orders"
	"service-rider-web/internal/service/screens"
	"service-rider-web/internal/session"
	"service-rider-web/internal/transport/kafka"
	"service-rider-web/internal/view"
)

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	dbConnect  dbConnectFunc
	logFatalf  func(string, ...interface{})
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		dbConnect:  connectDbWithRetry,
		logFatalf:  log.Fatalf,
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
}

// WithConfig replaces config loading with a fixed config.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// WithRegistry registers service metrics in reg and serves /metrics from it.
func (b *ContainerBuilder) WithRegistry(reg *prometheus.Registry) *ContainerBuilder {
	if reg != nil {
		b.registerer = reg
		b.gatherer = reg
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container, b.registerer, b.gatherer); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerSession(container); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerMessaging(container); err != nil {
		return nil, fmt.Errorf("messaging: %w", err)
	}
	if err := registerConnectivity(container); err != nil {
		return nil, fmt.Errorf("connectivity: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

type purgeInterval time.Duration

func registerCore(container *dig.Container, ctx context.Context, load func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		load,
		NewLogger,
		func(cfg *config.Config) domain.AccessPolicy { return cfg.Auth.Policy() },
		func() purgeInterval { return purgeInterval(time.Hour) },
	)
}

func registerMetrics(container *dig.Container, reg prometheus.Registerer, gatherer prometheus.Gatherer) error {
	return provideAll(container,
		func() (*metrics.Set, error) {
			set := metrics.NewSet()
			if err := set.Register(reg); err != nil {
				return nil, err
			}
			return set, nil
		},
		func() prometheus.Gatherer { return gatherer },
	)
}

// registerDb provides a pool only for the postgres session backend; the cookie backend
// gets a nil pool.
func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		if cfg.Session.Backend != config.SessionBackendPostgres {
			return nil, nil
		}
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return pool, nil
	}
	return provideAll(container, providerDB)
}

type sessionMiddleware func(http.Handler) http.Handler

func registerSession(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) (*sessions.CookieStore, error) {
			return session.NewCookieStore(session.CookieOptions{
				Secret: cfg.Session.Secret,
				MaxAge: int(cfg.Session.MaxAge / time.Second),
				Secure: cfg.Session.Secure,
			})
		},
		func(cfg *config.Config, store *sessions.CookieStore, pool *pgxpool.Pool) session.Persister {
			if pool == nil {
				return session.NewCookiePersister(store)
			}
			return session.NewServerPersister(store, repository.NewSessionRepo(pool), cfg.Session.MaxAge)
		},
		func(store *sessions.CookieStore) *session.NoticeStore {
			return session.NewNoticeStore(store)
		},
		func(
			p session.Persister,
			notices *session.NoticeStore,
			policy domain.AccessPolicy,
			logger logx.Logger,
		) sessionMiddleware {
			return session.Middleware(p, notices, policy, logger)
		},
	)
}

// unauthorizedHook forwards transport-level 401s to whoever ends the session. The auth
// service is built after the HTTP client it depends on, so the target is bound late.
type unauthorizedHook struct {
	target func(ctx context.Context)
}

func (h *unauthorizedHook) fire(ctx context.Context) {
	if h.target != nil {
		h.target(ctx)
	}
}

func registerGateway(container *dig.Container) error {
	return provideAll(container,
		func() *unauthorizedHook { return &unauthorizedHook{} },
		func(cfg *config.Config, hook *unauthorizedHook) *riderapi.Client {
			hc := riderapi.NewHTTPClient(nil, riderapi.HTTPOptions{
				Timeout:        cfg.API.Timeout,
				Tokens:         session.TokenFromContext,
				OnUnauthorized: hook.fire,
			})
			return riderapi.NewClient(cfg.API.BaseURL, hc)
		},
		func(cfg *config.Config, client *riderapi.Client, m *metrics.Set, logger logx.Logger) riderapi.API {
			return riderapi.NewRetryingClient(client, logger, m.GatewayRetries, riderapi.RetryConfig{
				MaxAttempts: cfg.API.RetryAttempts,
				BaseDelay:   cfg.API.RetryBaseDelay,
				MaxDelay:    cfg.API.RetryMaxDelay,
			})
		},
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) time.Duration { return cfg.API.Timeout },
		func(cfg *config.Config, logger logx.Logger) *query.Cache {
			return query.NewCache(cfg.Query.StaleTime, logger,
				query.WithKindStaleTime(query.KindDashboard, cfg.Query.DashboardRefresh))
		},
		func(
			api riderapi.API,
			cache *query.Cache,
			policy domain.AccessPolicy,
			timeout time.Duration,
			m *metrics.Set,
			hook *unauthorizedHook,
			logger logx.Logger,
		) *auth.Service {
			svc := auth.NewService(api, cache, policy, timeout, m.SessionExpired, logger)
			hook.target = svc.ExpireFromContext
			return svc
		},
		func(api riderapi.API, cache *query.Cache, timeout time.Duration, logger logx.Logger) *screens.Service {
			return screens.NewService(api, cache, timeout, logger)
		},
		func(
			api riderapi.API,
			reader *screens.Service,
			cache *query.Cache,
			producer *kafka.Producer,
			m *metrics.Set,
			timeout time.Duration,
			logger logx.Logger,
		) *delivery.Service {
			var publisher delivery.Publisher
			if producer != nil {
				publisher = producer
			}
			return delivery.NewDeliveryService(api, reader, cache, publisher,
				metrics.NewTransitions(m.StatusTransitions), timeout, logger)
		},
		func(cache *query.Cache, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(cache, logger)
		},
	)
}

func registerMessaging(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, p *orders.Processor, timeout time.Duration, logger logx.Logger) (*kafka.Consumer, error) {
			if !cfg.Kafka.Enabled() {
				return nil, nil
			}
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic,
				makeOrdersKafka(p, timeout))
		},
		func(cfg *config.Config, logger logx.Logger) (*kafka.Producer, error) {
			if !cfg.Kafka.Enabled() {
				return nil, nil
			}
			return kafka.NewProducer(logger, cfg.Kafka.Brokers, cfg.Kafka.StatusTopic)
		},
	)
}

func registerConnectivity(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, m *metrics.Set) *connectivity.Monitor {
			online := metrics.NewOnline(m.UpstreamOnline)
			online.SetOnline(true)
			return connectivity.NewMonitor(
				connectivity.WithReconnectedFor(cfg.Connectivity.ReconnectedFor),
				connectivity.OnChange(func(st connectivity.Status) { online.SetOnline(st.Online) }),
			)
		},
		func(cfg *config.Config, monitor *connectivity.Monitor, logger logx.Logger) *connectivity.Prober {
			client := &http.Client{Timeout: 5 * time.Second}
			return connectivity.NewProber(client, cfg.API.BaseURL+cfg.API.HealthPath,
				cfg.Connectivity.ProbeInterval, monitor, logger)
		},
		connectivity.NewHub,
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	pageConfig := func(cfg *config.Config) handlers.PageConfig {
		return handlers.PageConfig{
			GoogleClientID:   cfg.Auth.GoogleClientID,
			DashboardRefresh: cfg.Query.DashboardRefresh,
		}
	}
	routerProvider := func(
		logger logx.Logger,
		base *handlers.Handlers,
		pages *handlers.PageHandler,
		sm sessionMiddleware,
		limiter *ratelimit.Middleware,
		policy domain.AccessPolicy,
		hub *connectivity.Hub,
		gatherer prometheus.Gatherer,
	) http.Handler {
		return router.New(router.Deps{
			Logger:       logger,
			Base:         base,
			Pages:        pages,
			Session:      sm,
			RateLimit:    limiter.Handler(),
			Policy:       policy,
			Connectivity: hub,
			Metrics:      promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		})
	}
	return provideAll(container,
		view.NewRenderer,
		handlers.New,
		handlers.NewAuthUsecase,
		handlers.NewScreensUsecase,
		handlers.NewDeliveryUsecase,
		pageConfig,
		handlers.NewPageHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
	)
}
