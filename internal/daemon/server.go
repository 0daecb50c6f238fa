// Package daemon runs the background chat-completion service on a
// filesystem socket and provides the client used to reach it.
package daemon

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/myducklabs/myduck/internal/config"
	duckhandler "github.com/myducklabs/myduck/internal/handler/duck"
	"github.com/myducklabs/myduck/internal/policy"
	"github.com/myducklabs/myduck/internal/service/provider"
	"github.com/myducklabs/myduck/pkg/utils"
)

// NewRouter wires the daemon's HTTP routes.
func NewRouter(bridge duckhandler.Asker, pol *policy.Policy) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "Not found")
	})

	handler := duckhandler.New(bridge, pol)
	handler.RegisterRoutes(r)

	return r
}

// Run binds the unix socket and serves until ctx is canceled. Any stale
// socket file from an unclean shutdown is removed before binding, and the
// socket file is removed again on the way out.
func Run(ctx context.Context, cfg *config.Config) error {
	socketPath := cfg.Daemon.SocketPath
	_ = os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	defer os.Remove(socketPath)

	bridge := provider.NewBridge(cfg.Provider)
	router := NewRouter(bridge, policy.New())

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("[daemon] %s listening on %s", duckhandler.ServiceName, socketPath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
