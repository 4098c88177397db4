package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evote-api/pkg/logger"
)

// StartWithGracefulShutdown starts the server and blocks until an interrupt
// signal arrives, then drains in-flight requests before returning.
func StartWithGracefulShutdown(server *http.Server, log *logger.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-stop
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info("Shutting down server gracefully...")
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Server shutdown error")
	} else {
		log.Info("Server stopped gracefully")
	}
}
