// Package httpserver runs an HTTP server tied to a context, shutting down
// gracefully when the context is cancelled.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/logger"
)

// Serve blocks until the server stops. Cancelling ctx initiates a graceful
// shutdown with a one minute deadline.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	server := http.Server{
		Handler:           handler,
		Addr:              bind,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute * 5,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", server.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			// shutdown was requested, not a failure
			errCh <- nil
			return
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Initiating shutdown", "addr", server.Addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("Shutdown completed", "addr", server.Addr)
		return <-errCh
	}
}
