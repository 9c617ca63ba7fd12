// Command hotelstub serves the in-memory hotel service double for local
// development. Besides the regular service routes it exposes two admin
// endpoints to flip device activation, which the real service does through
// its back office.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/hotel-staff-agent/internal/apitest"
	"github.com/example/hotel-staff-agent/internal/logging"
)

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := strings.TrimSpace(os.Getenv("HOTEL_STUB_ADDR"))
	if addr == "" {
		addr = ":8080"
	}

	service := apitest.NewServer()

	mux := http.NewServeMux()
	mux.Handle("/", service.Handler())
	mux.HandleFunc("POST /admin/activate", func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.URL.Query().Get("device_id")
		if deviceID == "" {
			http.Error(w, "device_id required", http.StatusBadRequest)
			return
		}
		service.Activate(deviceID)
		logger.Info("device activated", "device_id", deviceID)
	})
	mux.HandleFunc("POST /admin/revoke", func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.URL.Query().Get("device_id")
		if deviceID == "" {
			http.Error(w, "device_id required", http.StatusBadRequest)
			return
		}
		service.Revoke(deviceID)
		logger.Info("device revoked", "device_id", deviceID)
	})

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("hotel stub listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
