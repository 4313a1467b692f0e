package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/openiap/openflow/internal/application"
	"github.com/openiap/openflow/internal/config"
	"github.com/openiap/openflow/internal/logging"
)

const shutdownGracePeriod = 10 * time.Second

var signalNotify = signal.Notify

type reloader interface {
	Reload()
}

func main() {
	kingpinApp := kingpin.New("openflow", "OpenFlow service host - loads settings from the environment and resolves SAML federation metadata")
	envFile := kingpinApp.Flag("env-file", "Path to a .env file loaded into the environment before settings are read").String()
	baseDir := kingpinApp.Flag("base-dir", "Directory used for the logpath default and VERSION lookup (defaults to the executable directory)").String()
	logLevel := kingpinApp.Flag("log-level", "Minimum log level").Default("info").Enum("debug", "info", "warn", "error")
	printConfig := kingpinApp.Flag("print-config", "Print the non-secret settings as YAML and exit").Bool()
	printVersion := kingpinApp.Flag("print-version", "Print the discovered version and exit").Bool()
	skipFederation := kingpinApp.Flag("skip-federation", "Do not resolve saml_federation_metadata on startup").Bool()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			panic(fmt.Sprintf("failed to load env file: %v", err))
		}
	}

	var opts []config.Option
	if *baseDir != "" {
		opts = append(opts, config.WithBaseDir(*baseDir))
	}
	store := config.Load(opts...)

	if *printVersion {
		fmt.Fprint(os.Stdout, store.Version())
		return
	}
	if *printConfig {
		if err := store.WriteYAML(os.Stdout); err != nil {
			panic(fmt.Sprintf("failed to print configuration: %v", err))
		}
		return
	}

	logger, err := logging.NewWithLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(store, logger, application.WithFederation(!*skipFederation))
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	waitForSignals(app, logger)
	app.Stop()
	shutdown(app.Server(), shutdownGracePeriod, logger)
}

// waitForSignals reloads on SIGHUP and returns on SIGINT or SIGTERM.
func waitForSignals(app reloader, logger *zap.Logger) {
	sigs := make(chan os.Signal, 1)
	signalNotify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for sig := range sigs {
		if sig == syscall.SIGHUP {
			logger.Info("reloading settings")
			app.Reload()
			continue
		}
		logger.Info("shutting down server", zap.String("signal", sig.String()))
		return
	}
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
