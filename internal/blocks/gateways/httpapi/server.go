package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/haukened/block-visibility/internal/blocks/common/log"
)

// Transport serves an http.Handler on a TCP address with graceful shutdown.
type Transport struct {
	addr    string
	handler http.Handler
	logger  log.Logger

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	running  bool
	done     chan struct{} // closed when Serve returns
	stopped  chan struct{} // closed once Shutdown has drained
}

// NewTransport creates a Transport for addr (e.g. ":8080").
func NewTransport(addr string, handler http.Handler, logger log.Logger) *Transport {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Transport{addr: addr, handler: handler, logger: logger}
}

// Start binds the listener and serves in the background. Cancelling ctx
// triggers the same graceful shutdown as Stop.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("HTTP transport already running")
	}

	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", t.addr, err)
	}

	t.listener = ln
	t.server = &http.Server{
		Handler:           t.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	t.running = true
	t.done = make(chan struct{})
	t.stopped = make(chan struct{})

	t.logger.Info(map[string]any{
		"transport": "http",
		"address":   ln.Addr().String(),
	}, "HTTP transport started")

	done := t.done
	go t.serve(t.server, ln, done)
	go func() {
		select {
		case <-ctx.Done():
			_ = t.Stop()
		case <-done:
		}
	}()
	return nil
}

func (t *Transport) serve(srv *http.Server, ln net.Listener, done chan struct{}) {
	defer close(done)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.logger.Error(map[string]any{"error": err.Error()}, "HTTP transport stopped unexpectedly")
	}
}

// Stop gracefully shuts the server down, waiting up to five seconds for
// in-flight requests. A Stop racing an earlier one (for example the ctx
// watcher) blocks until that shutdown has finished.
func (t *Transport) Stop() error {
	t.mu.Lock()
	if !t.running {
		stopped := t.stopped
		t.mu.Unlock()
		if stopped != nil {
			<-stopped
		}
		return nil
	}
	srv, done, stopped := t.server, t.done, t.stopped
	t.running = false
	t.mu.Unlock()
	defer close(stopped)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(ctx)
	if err != nil {
		t.logger.Warn(map[string]any{"error": err.Error()}, "Error during HTTP shutdown")
	}
	<-done

	t.logger.Info(map[string]any{
		"transport": "http",
		"address":   t.Address(),
	}, "HTTP transport stopped")
	return err
}

// Address returns the bound address once started, otherwise the configured one.
func (t *Transport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.listener != nil {
		return t.listener.Addr().String()
	}
	return t.addr
}
