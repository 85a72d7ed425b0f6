// Package bootstrap wires configuration into a storage provider, a loaded
// Record Store and a Lifecycle Controller. Every binary starts here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hackgods/vet-appointments/internal/appointment"
	"github.com/hackgods/vet-appointments/internal/config"
	"github.com/hackgods/vet-appointments/internal/db"
	"github.com/hackgods/vet-appointments/internal/metrics"
	redisclient "github.com/hackgods/vet-appointments/internal/redis"
	"github.com/hackgods/vet-appointments/internal/storage"
	"github.com/hackgods/vet-appointments/internal/storage/file"
	"github.com/hackgods/vet-appointments/internal/storage/s3"
	"github.com/hackgods/vet-appointments/internal/storage/sqlite"
)

type App struct {
	Config     config.Config
	Provider   storage.Provider
	Store      *appointment.Store
	Controller *appointment.Controller
	Metrics    *metrics.Collector
	Registry   *prometheus.Registry

	closers []func() error
}

// OpenStorage builds the provider selected by cfg.StorageDriver. The
// returned closer releases its connections.
func OpenStorage(ctx context.Context, cfg config.Config) (storage.Provider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemory(), noop, nil

	case config.DriverFile:
		st, err := file.New(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return st, noop, nil

	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil

	case config.DriverRedis:
		rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection error: %w", err)
		}
		log.Println("connected to Redis")
		return redisclient.NewKV(rdb, "vet:"), rdb.Close, nil

	case config.DriverPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connection error: %w", err)
		}
		log.Println("connected to Postgres")
		kv := db.NewKV(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return kv, func() error { pool.Close(); return nil }, nil

	case config.DriverS3:
		st, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return st, noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Options are the front-end collaborators handed to the controller.
type Options struct {
	Confirmer appointment.Confirmer
	Notifier  appointment.Notifier
}

// Open connects storage, loads the persisted collection and returns a ready
// controller. A failed load is logged and the app starts with whatever the
// store held (an empty list).
func Open(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	provider, closeProvider, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Provider: provider, Registry: prometheus.NewRegistry()}
	app.closers = append(app.closers, closeProvider)

	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = metrics.New(app.Registry, func() int {
		if app.Store == nil {
			return 0
		}
		return app.Store.Len()
	})

	hook := app.Metrics.StorageError
	var writer appointment.Writer
	switch cfg.PersistMode {
	case config.PersistAsync:
		writer = appointment.NewAsyncWriter(provider, cfg.StorageTimeout, hook)
	default:
		writer = appointment.NewQueuedWriter(provider, 0, cfg.StorageTimeout, hook)
	}

	app.Store = appointment.NewStore(provider,
		appointment.WithKey(cfg.StorageKey),
		appointment.WithWriter(writer),
		appointment.WithErrorHook(hook),
	)

	loadCtx := ctx
	if cfg.StorageTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, cfg.StorageTimeout)
		defer cancel()
	}
	if err := app.Store.Load(loadCtx); err != nil {
		log.Printf("continuing with %d appointments after load failure", app.Store.Len())
	}

	app.Controller = appointment.NewController(app.Store,
		appointment.WithConfirmer(opts.Confirmer),
		appointment.WithNotifier(appointment.Notifiers(app.Metrics, opts.Notifier)),
	)

	log.Printf("storage ready driver=%s key=%s persist=%s", provider.Name(), cfg.StorageKey, cfg.PersistMode)
	return app, nil
}

// Close drains pending writes, then releases storage connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush appointments: %w", err))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
