// Package site serves the bot's HTTP sidecar: a liveness page and the
// Prometheus metrics endpoint. Optional; the bot runs fine without it.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"modwarden/internal/version"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunServer starts the status server and blocks until ctx is cancelled or
// the listener fails; run in a goroutine.
func RunServer(ctx context.Context, port int) {
	started := time.Now()

	r := mux.NewRouter()
	r.HandleFunc("/", handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", handleHealth(started)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		log.Println("[INFO] Shutting down status server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	log.Printf("[INFO] Status server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		// Log the error but do NOT call log.Fatal, that would kill the whole process.
		log.Printf("[ERR] Status server exited: %v", err)
	}
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "%s is online!", version.AppName)
}

func handleHealth(started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"status":  "ok",
			"app":     version.AppName,
			"version": version.Version,
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	}
}
