package main

import (
	"net/http"
	"os"
	osSignal "os/signal"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type countingReloader struct {
	reloads int
}

func (r *countingReloader) Reload() {
	r.reloads++
}

func TestSignalsReloadThenShutdown(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		go func() {
			ch <- syscall.SIGHUP
			ch <- syscall.SIGTERM
		}()
	}

	r := &countingReloader{}
	done := make(chan struct{})
	go func() {
		waitForSignals(r, zaptest.NewLogger(t))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected SIGTERM to stop the signal loop")
	}
	if r.reloads != 1 {
		t.Fatalf("expected exactly one reload, got %d", r.reloads)
	}
}

func TestShutdownRunsServerHooks(t *testing.T) {
	server := &http.Server{}
	called := make(chan struct{}, 1)
	server.RegisterOnShutdown(func() {
		called <- struct{}{}
	})

	logger := zaptest.NewLogger(t)
	shutdown(server, time.Millisecond, logger)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatalf("expected server shutdown callback to execute")
	}
}
