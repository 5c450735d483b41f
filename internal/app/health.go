package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/m3rciful/leadbot/core/logger"
	"log/slog"
)

// healthServer is a tiny auxiliary HTTP server for liveness checks.
type healthServer struct {
	srv *http.Server
}

// startHealth runs the health endpoint on listen. Empty listen disables it.
func startHealth(listen string) *healthServer {
	if listen == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"running"}`))
	})

	h := &healthServer{
		srv: &http.Server{
			Addr:              listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	go func() {
		logger.L.With("component", "health").Info("health endpoint listening",
			slog.String("event", "listen"),
			slog.String("listen", listen),
		)
		if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.With("component", "health").Error("health endpoint failed",
				slog.String("event", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}()

	return h
}

func (h *healthServer) shutdown(ctx context.Context) {
	if h == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = h.srv.Shutdown(shutdownCtx)
}
