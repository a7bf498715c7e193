package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"service-rider-web/internal/connectivity"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/repository"
	"service-rider-web/internal/transport/kafka"
)

// Runner runs the application from a built container.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a Runner that serves until the container context is done.
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun runs the application and exits the process on unexpected errors.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	var logger logx.Logger = logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		log.Fatalf("run error: %v", err)
	}
}

type runDeps struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Server   *http.Server
	Pool     *pgxpool.Pool
	Prober   *connectivity.Prober
	Consumer *kafka.Consumer
	Producer *kafka.Producer
	Purge    purgeInterval
}

func run(container *dig.Container) error {
	return container.Invoke(func(d runDeps) error {
		ctx := d.Ctx
		startServer(d.Server, d.Logger)

		if d.Prober != nil {
			go func() { _ = d.Prober.Run(ctx) }()
		}
		if d.Consumer != nil {
			go func() {
				if err := d.Consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					d.Logger.Error("orders consumer stopped", logx.Err(err))
				}
			}()
		}
		if d.Pool != nil {
			startPurgeLoop(ctx, d.Logger, repository.NewSessionRepo(d.Pool), time.Duration(d.Purge))
		}

		<-ctx.Done()
		d.Logger.Info("shutting down service-rider-web")
		gracefulShutdown(d.Server, d.Logger, 15*time.Second)
		closeResources(d)
		return ctx.Err()
	})
}

func startServer(server *http.Server, logger logx.Logger) {
	go func() {
		logger.Info("service-rider-web listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", logx.Err(err))
		}
	}()
}

type expiredPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// startPurgeLoop deletes expired server-side session records every interval.
func startPurgeLoop(ctx context.Context, logger logx.Logger, repo expiredPurger, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := repo.DeleteExpired(ctx)
				if err != nil {
					if ctx.Err() == nil {
						logger.Warn("purge expired sessions failed", logx.Err(err))
					}
					continue
				}
				if n > 0 {
					logger.Info("expired sessions purged", logx.Int("count", int(n)))
				}
			}
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(d runDeps) {
	if d.Consumer != nil {
		if err := d.Consumer.Close(); err != nil {
			d.Logger.Warn("orders consumer close error", logx.Err(err))
		}
	}
	if d.Producer != nil {
		if err := d.Producer.Close(); err != nil {
			d.Logger.Warn("status producer close error", logx.Err(err))
		}
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}
