package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openiap/openflow/internal/api"
	"github.com/openiap/openflow/internal/config"
	"github.com/openiap/openflow/internal/federation"
	"github.com/openiap/openflow/internal/metrics"
	"github.com/openiap/openflow/internal/storage"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// Option configures New.
type Option func(*App)

// WithResolver overrides the federation metadata resolver.
func WithResolver(resolver *federation.Resolver) Option {
	return func(a *App) {
		a.resolver = resolver
	}
}

// WithFederation controls whether Start resolves saml_federation_metadata.
func WithFederation(enabled bool) Option {
	return func(a *App) {
		a.federation = enabled
	}
}

// App encapsulates the application dependencies and HTTP server.
type App struct {
	store      *config.Store
	metadata   storage.Storage
	resolver   *federation.Resolver
	metrics    *metrics.Metrics
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
	federation bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New initializes the application around an already loaded settings store.
func New(store *config.Store, logger *zap.Logger, opts ...Option) (*App, error) {
	if store == nil {
		return nil, errors.New("settings store is required")
	}

	a := &App{
		store:      store,
		metadata:   storage.NewMemoryStorage(),
		metrics:    metrics.New(),
		logger:     logger,
		federation: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.resolver == nil {
		a.resolver = federation.NewResolver(nil, logger, federation.WithRecorder(a.metrics))
	}
	a.metrics.SetVersion(strings.TrimSpace(store.Version()))

	a.handler = api.NewHandler(reloader{a}, a.metadata)
	a.router = api.NewRouter(a.handler, logger)

	rootHandler, err := BuildRootHandler(a.router, a.metrics.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}
	a.server = NewServer(store.Settings(), rootHandler)

	return a, nil
}

// BuildRootHandler mounts the admin API under /api/ and the metrics endpoint
// under /metrics.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) (http.Handler, error) {
	if apiHandler == nil {
		return nil, errors.New("api handler is required")
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	return mux, nil
}

// NewServer creates an HTTP server listening on the configured port.
func NewServer(settings config.Settings, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(settings.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and, unless disabled, resolves
// the federation metadata in the background.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if url := a.store.Settings().SAMLFederationMetadata; a.federation && url != "" {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.ResolveFederation(ctx, url); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("federation metadata unavailable", zap.String("url", url), zap.Error(err))
			}
		}()
	}

	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("baseurl", a.store.BaseURL()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// ResolveFederation fetches the metadata at url and stores the result.
func (a *App) ResolveFederation(ctx context.Context, url string) error {
	md, err := a.resolver.Resolve(ctx, url)
	if err != nil {
		return err
	}
	if err := a.metadata.SetMetadata(md); err != nil {
		return fmt.Errorf("store federation metadata: %w", err)
	}
	a.logger.Info("federation metadata resolved",
		zap.String("url", url),
		zap.String("issuer", md.EntityID),
		zap.Int("certificates", len(md.Cert)),
	)
	return nil
}

// Reload re-reads the settings from the environment.
func (a *App) Reload() {
	a.store.Reload()
	a.metrics.ObserveReload()
	a.metrics.SetVersion(strings.TrimSpace(a.store.Version()))
	a.logger.Info("settings reloaded", zap.String("baseurl", a.store.BaseURL()))
}

// Stop cancels background work started by Start and waits for it.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// reloader routes API reloads through App so they are logged and counted.
type reloader struct {
	app *App
}

func (r reloader) Settings() config.Settings {
	return r.app.store.Settings()
}

func (r reloader) Reload() {
	r.app.Reload()
}
