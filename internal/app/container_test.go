package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"service-rider-web/internal/config"
	"service-rider-web/internal/connectivity"
	"service-rider-web/internal/domain"
	"service-rider-web/internal/http/handlers"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/metrics"
	"service-rider-web/internal/service/auth"
	"service-rider-web/internal/session"
	"service-rider-web/internal/transport/kafka"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Port = 8080
	cfg.Auth.BypassEmails = []string{"ops@example.com"}
	return cfg
}

func setupTestContainer(t *testing.T, cfg *config.Config) *dig.Container {
	t.Helper()

	c := dig.New()

	providers := []struct {
		name     string
		provider any
	}{
		{"context", func() context.Context { return context.Background() }},
		{"logger", func() logx.Logger { return logx.Nop() }},
		{"config", func() *config.Config { return cfg }},
		{"policy", func() domain.AccessPolicy { return cfg.Auth.Policy() }},
		{"purge", func() purgeInterval { return purgeInterval(time.Hour) }},
		{"pgxpool", func() *pgxpool.Pool { return nil }},
	}

	for _, p := range providers {
		err := c.Provide(p.provider)
		require.NoErrorf(t, err, "provide %s", p.name)
	}

	require.NoError(t, registerMetrics(c, prometheus.NewRegistry(), prometheus.NewRegistry()))
	require.NoError(t, registerSession(c))
	require.NoError(t, registerGateway(c))
	require.NoError(t, registerService(c))
	require.NoError(t, registerMessaging(c))
	require.NoError(t, registerConnectivity(c))
	require.NoError(t, registerHTTP(c))

	return c
}

func verifyServer(t *testing.T, srv *http.Server) {
	t.Helper()

	require.NotNil(t, srv, "http.Server is nil")
	require.Equal(t, ":8080", srv.Addr)
	require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
	require.Greater(t, srv.ReadTimeout, time.Duration(0))
	require.Greater(t, srv.WriteTimeout, time.Duration(0))
	require.Greater(t, srv.IdleTimeout, time.Duration(0))
}

func TestRegisterAll_ProvidesHttpServerAndHandlers(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(
		srv *http.Server,
		base *handlers.Handlers,
		pages *handlers.PageHandler,
		hub *connectivity.Hub,
		prober *connectivity.Prober,
	) {
		verifyServer(t, srv)
		require.NotNil(t, base)
		require.NotNil(t, pages)
		require.NotNil(t, hub)
		require.NotNil(t, prober)
	})
	require.NoError(t, err)
}

func TestRegisterAll_CookieBackendUsesCookiePersister(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(p session.Persister) {
		require.IsType(t, &session.CookiePersister{}, p)
	})
	require.NoError(t, err)
}

func TestRegisterAll_KafkaDisabledYieldsNilClients(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(consumer *kafka.Consumer, producer *kafka.Producer) {
		require.Nil(t, consumer)
		require.Nil(t, producer)
	})
	require.NoError(t, err)
}

func TestRegisterService_BindsUnauthorizedHookToAuth(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(svc *auth.Service, hook *unauthorizedHook) {
		require.NotNil(t, svc)
		require.NotNil(t, hook.target)
	})
	require.NoError(t, err)
}

func TestUnauthorizedHook_FireWithoutTarget(t *testing.T) {
	t.Parallel()

	hook := &unauthorizedHook{}
	require.NotPanics(t, func() { hook.fire(context.Background()) })

	called := 0
	hook.target = func(context.Context) { called++ }
	hook.fire(context.Background())
	require.Equal(t, 1, called)
}

func TestRegisterHTTP_RoutesThroughRouter(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(h http.Handler) {
		tests := []struct {
			name   string
			method string
			path   string
			want   int
		}{
			{"ping", http.MethodGet, "/ping", http.StatusOK},
			{"healthcheck", http.MethodHead, "/healthcheck", http.StatusNoContent},
			{"metrics", http.MethodGet, "/metrics", http.StatusOK},
			{"login page", http.MethodGet, "/login", http.StatusOK},
			{"guarded dashboard", http.MethodGet, "/", http.StatusSeeOther},
		}
		for _, tt := range tests {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equalf(t, tt.want, rr.Code, tt.name)
		}
	})
	require.NoError(t, err)
}

func TestRegisterMetrics_ExposesServiceCollectors(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(h http.Handler, monitor *connectivity.Monitor) {
		monitor.SetOnline(false)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "upstream_online 0")
	})
	require.NoError(t, err)
}

func TestRegisterMetrics_DuplicateRegistrationFails(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	first := dig.New()
	require.NoError(t, registerMetrics(first, reg, reg))
	require.NoError(t, first.Invoke(func(set *metrics.Set) { require.NotNil(t, set) }))

	second := dig.New()
	require.NoError(t, registerMetrics(second, reg, reg))
	err := second.Invoke(func(*metrics.Set) {})
	require.Error(t, err)
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestRegisterCore_ProvidesDependencies(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()
	cfg := testConfig()

	err := registerCore(c, ctx, func() (*config.Config, error) { return cfg, nil })
	require.NoError(t, err)

	err = c.Invoke(func(
		gotCtx context.Context,
		logger logx.Logger,
		gotCfg *config.Config,
		policy domain.AccessPolicy,
		interval purgeInterval,
	) {
		require.Equal(t, ctx, gotCtx)
		require.NotNil(t, logger)
		require.Same(t, cfg, gotCfg)
		require.Equal(t, domain.Role("rider"), policy.Role)
		require.Equal(t, []string{"ops@example.com"}, policy.BypassEmails)
		require.Equal(t, purgeInterval(time.Hour), interval)
	})
	require.NoError(t, err)
}

func TestRegisterCore_ConfigError(t *testing.T) {
	t.Parallel()

	c := dig.New()
	require.NoError(t, registerCore(c, context.Background(), func() (*config.Config, error) {
		return nil, errors.New("bad config")
	}))

	err := c.Invoke(func(*config.Config) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad config")
}

func TestRegisterDb_CookieBackendSkipsConnect(t *testing.T) {
	t.Parallel()

	c := dig.New()
	cfg := testConfig()

	require.NoError(t, c.Provide(func() context.Context { return context.Background() }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(func() logx.Logger { return logx.Nop() }))

	err := registerDb(c, func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
		require.FailNow(t, "dbConnect must not be called for the cookie backend")
		return nil, nil
	})
	require.NoError(t, err)

	err = c.Invoke(func(pool *pgxpool.Pool) {
		require.Nil(t, pool)
	})
	require.NoError(t, err)
}

func TestRegisterDb_PostgresBackendUsesDbConnect(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()
	cfg := testConfig()
	cfg.Session.Backend = config.SessionBackendPostgres

	require.NoError(t, c.Provide(func() context.Context { return ctx }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(func() logx.Logger { return logx.Nop() }))

	stubConnect := func(
		gotCtx context.Context,
		_ logx.Logger,
		dsn string,
		retries int,
		delay time.Duration,
	) (*pgxpool.Pool, error) {
		require.Equal(t, ctx, gotCtx)
		require.Equal(t, cfg.DB.DSN(), dsn)
		require.Equal(t, 10, retries)
		require.Equal(t, time.Second, delay)
		return nil, errors.New("db failed")
	}

	require.NoError(t, registerDb(c, stubConnect))

	err := c.Invoke(func(*pgxpool.Pool) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failed")
}

func TestContainerBuilder_Build_Success(t *testing.T) {
	t.Parallel()

	builder := NewContainerBuilder().
		WithConfig(testConfig()).
		WithRegistry(prometheus.NewRegistry())

	c, err := builder.build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(srv *http.Server, pool *pgxpool.Pool) {
		verifyServer(t, srv)
		require.Nil(t, pool)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_DBError(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Session.Backend = config.SessionBackendPostgres

	builder := NewContainerBuilder().
		WithConfig(cfg).
		WithRegistry(prometheus.NewRegistry()).
		WithDBConnect(func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
			return nil, errors.New("db failed")
		})

	c, err := builder.build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(*http.Server) {})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "db failed"))
}

func TestContainerBuilder_MustBuild_DoesNotLogFatal(t *testing.T) {
	t.Parallel()

	builder := NewContainerBuilder().
		WithConfig(testConfig()).
		WithRegistry(prometheus.NewRegistry()).
		WithLogFatalf(func(format string, args ...interface{}) {
			require.FailNowf(t, "logFatalf must not be called", format, args...)
		})

	c := builder.MustBuild(context.Background())
	require.NotNil(t, c)
}
