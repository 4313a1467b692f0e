package application

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/crewjam/saml"
	"go.uber.org/zap/zaptest"

	"github.com/openiap/openflow/internal/config"
	"github.com/openiap/openflow/internal/federation"
)

func testStore(t *testing.T) *config.Store {
	t.Helper()
	t.Setenv("port", "8085")
	t.Setenv("saml_federation_metadata", "")
	return config.Load(config.WithBaseDir(t.TempDir()))
}

func TestNewInitializesDependencies(t *testing.T) {
	app, err := New(testStore(t), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if app.server == nil || app.router == nil || app.handler == nil || app.resolver == nil {
		t.Fatalf("expected server, router, handler and resolver to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
	if app.server.Addr != ":8085" {
		t.Fatalf("expected address :8085, got %s", app.server.Addr)
	}
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(nil, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error without a settings store")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	handler := http.NewServeMux()

	server := NewServer(config.Settings{Port: 9090}, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != readHeaderTimeout ||
		server.WriteTimeout != writeTimeout ||
		server.IdleTimeout != idleTimeout {
		t.Fatalf("server timeouts do not match defaults")
	}
}

func TestBuildRootHandlerRoutes(t *testing.T) {
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	handler, err := BuildRootHandler(apiHandler, metricsHandler)
	if err != nil {
		t.Fatalf("BuildRootHandler returned error: %v", err)
	}

	cases := map[string]int{
		"/api/health": http.StatusNoContent,
		"/metrics":    http.StatusAccepted,
		"/":           http.StatusNotFound,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected status %d, got %d", path, want, rec.Code)
		}
	}

	if _, err := BuildRootHandler(nil, nil); err == nil {
		t.Fatalf("expected error without api handler")
	}
}

func TestReloadPicksUpEnvironment(t *testing.T) {
	app, err := New(testStore(t), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	t.Setenv("domain", "reloaded.example.com")
	app.Reload()

	if got := app.store.Settings().Domain; got != "reloaded.example.com" {
		t.Fatalf("expected reloaded domain, got %s", got)
	}
}

func TestResolveFederationStoresMetadata(t *testing.T) {
	fetcher := federation.FetcherFunc(func(context.Context, string) (*saml.EntityDescriptor, error) {
		return &saml.EntityDescriptor{EntityID: "https://idp.example.com"}, nil
	})
	logger := zaptest.NewLogger(t)
	resolver := federation.NewResolver(fetcher, logger)

	app, err := New(testStore(t), logger, WithResolver(resolver))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := app.ResolveFederation(context.Background(), "https://idp.example.com/metadata"); err != nil {
		t.Fatalf("ResolveFederation returned error: %v", err)
	}
	entry, err := app.metadata.GetMetadata()
	if err != nil {
		t.Fatalf("GetMetadata returned error: %v", err)
	}
	if entry.Metadata.EntityID != "https://idp.example.com" {
		t.Fatalf("unexpected stored metadata: %+v", entry.Metadata)
	}
}

func TestResolveFederationPropagatesFailure(t *testing.T) {
	boom := errors.New("no such host")
	fetcher := federation.FetcherFunc(func(context.Context, string) (*saml.EntityDescriptor, error) {
		return nil, boom
	})
	logger := zaptest.NewLogger(t)
	resolver := federation.NewResolver(fetcher, logger,
		federation.WithMaxRetries(1),
		federation.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)

	app, err := New(testStore(t), logger, WithResolver(resolver))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := app.ResolveFederation(context.Background(), "https://idp.example.com/metadata"); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}
	if _, err := app.metadata.GetMetadata(); err == nil {
		t.Fatalf("expected nothing stored after failure")
	}
}

func TestStopWithoutStart(t *testing.T) {
	app, err := New(testStore(t), zaptest.NewLogger(t), WithFederation(false))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	app.Stop()
}
