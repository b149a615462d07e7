package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/directory"
	"backoffice/internal/domain/invoice"
	"backoffice/internal/domain/ledger"
	"backoffice/internal/domain/notifications"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/domain/reports"
	"backoffice/internal/platform/config"
	"backoffice/internal/platform/db"
	"backoffice/internal/platform/email"
	"backoffice/internal/platform/export"
	"backoffice/internal/platform/lock"
	"backoffice/internal/platform/logging"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/platform/render"
	"backoffice/internal/platform/storage"
	"backoffice/internal/platform/validation"
	audithandler "backoffice/internal/transport/http/handlers/audit"
	directoryhandler "backoffice/internal/transport/http/handlers/directory"
	invoicehandler "backoffice/internal/transport/http/handlers/invoices"
	ledgerhandler "backoffice/internal/transport/http/handlers/ledger"
	notificationshandler "backoffice/internal/transport/http/handlers/notifications"
	payrollhandler "backoffice/internal/transport/http/handlers/payroll"
	reportshandler "backoffice/internal/transport/http/handlers/reports"
	"backoffice/internal/transport/http/middleware"
)

const (
	mutationLimit  = 120
	mutationWindow = time.Minute
	shutdownGrace  = 10 * time.Second
)

// Routes is anything that mounts itself under /api/v1.
type Routes interface {
	RegisterRoutes(r chi.Router)
}

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	closers []func()
}

// Close releases everything New opened, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Run loads configuration, serves until SIGINT or SIGTERM, then drains.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.Configure(cfg.LogLevel)
	log := logging.For("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("back office server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// New connects to the database and the optional backends, then wires every
// service and handler.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log := logging.For("server")
	app := &App{Config: cfg}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app.DB = pool
	app.closers = append(app.closers, pool.Close)

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	files, err := openStorage(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	var locker payroll.Locker = lock.Noop{}
	if cfg.RedisAddr != "" {
		rdb, err := lock.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		locker = lock.NewRedis(rdb,
			time.Duration(cfg.PeriodLockTTLSeconds)*time.Second,
			time.Duration(cfg.PeriodLockWaitSeconds)*time.Second)
	} else {
		log.Warn("REDIS_ADDR not set, period lock falls back to the database unique index")
	}

	collector := metrics.New()
	validate := validation.New(cfg.PhoneRegion)
	pdf := render.New(render.Company{Name: cfg.CompanyName, Address: cfg.CompanyAddress}, cfg.DefaultCurrency)
	auditSvc := audit.New(pool)
	notifySvc := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)

	directorySvc := directory.NewService(directory.NewStore(pool), validate)
	ledgerSvc := ledger.NewService(ledger.NewStore(pool), validate, ledger.Deps{
		Exporter: export.NewExcel(),
		Files:    files,
		Audit:    auditSvc,
	})
	payrollSvc := payroll.NewService(payroll.NewStore(pool), payroll.Deps{
		Employees: directorySvc,
		Locker:    locker,
		Renderer:  pdf,
		Files:     files,
		Notifier:  notifySvc,
		Audit:     auditSvc,
		Metrics:   collector,
	})
	invoiceSvc := invoice.NewService(invoice.NewStore(pool), invoice.Deps{
		Customers:       directorySvc,
		Renderer:        pdf,
		Files:           files,
		Notifier:        notifySvc,
		Ledger:          ledgerSvc,
		Audit:           auditSvc,
		Metrics:         collector,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	reportsSvc := reports.NewService(reports.NewStore(pool), invoiceSvc, ledgerSvc)

	app.Router = NewRouter(cfg, pool, collector,
		directoryhandler.NewHandler(directorySvc),
		payrollhandler.NewHandler(payrollSvc, files),
		invoicehandler.NewHandler(invoiceSvc),
		ledgerhandler.NewHandler(ledgerSvc),
		reportshandler.NewHandler(reportsSvc),
		notificationshandler.NewHandler(notifySvc),
		audithandler.NewHandler(auditSvc),
	)
	return app, nil
}

// openStorage picks GCS when a bucket is configured and local disk otherwise,
// sealing both when an encryption key is set.
func openStorage(ctx context.Context, cfg config.Config, app *App) (storage.Backend, error) {
	var backend storage.Backend
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		app.closers = append(app.closers, func() { _ = gcs.Close() })
		backend = gcs
	} else {
		local, err := storage.NewLocal(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		backend = local
	}
	if cfg.DataEncryptionKey == "" {
		return backend, nil
	}
	sealed, err := storage.NewSealed(backend, cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("sealed storage: %w", err)
	}
	return sealed, nil
}

// NewRouter builds the HTTP surface. pinger may be nil in tests, in which case
// readiness always fails.
func NewRouter(cfg config.Config, pinger Pinger, collector *metrics.Collector, routes ...Routes) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pinger == nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
				logging.For("metrics").WithError(err).Warn("write metrics failed")
			}
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
		r.Use(middleware.MutationRateLimit(mutationLimit, mutationWindow))
		for _, routes := range routes {
			routes.RegisterRoutes(r)
		}
	})

	return router
}
