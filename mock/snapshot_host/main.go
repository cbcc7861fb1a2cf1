// Command snapshot_host publishes a local snapshot tree over HTTP in the
// layout read by the http snapshot source, for local development.
package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"country-pulse-service/internal/infra/snapshot/remote"
)

func main() {
	root := envOr("SNAPSHOT_ROOT", "./data")
	addr := envOr("SNAPSHOT_HOST_ADDR", ":8081")

	latency, err := time.ParseDuration(envOr("SNAPSHOT_HOST_LATENCY", "150ms"))
	if err != nil {
		log.Fatalf("[Snapshot Host] invalid SNAPSHOT_HOST_LATENCY: %v", err)
	}

	log.Printf("Mock snapshot host serving %s on %s", root, addr)
	server := &http.Server{
		Addr:         addr,
		Handler:      newHandler(root, latency),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newHandler serves snapshot files as-is and generates an index.json for
// every {category}/{country} directory.
func newHandler(root string, latency time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Snapshot Host] Health write error: %v", err)
		}
	})

	mux.HandleFunc("GET /{category}/{country}/"+remote.IndexFile, func(w http.ResponseWriter, r *http.Request) {
		serveIndex(w, r, root)
	})

	mux.Handle("/", http.FileServer(http.Dir(root)))

	return withLatency(mux, latency)
}

func serveIndex(w http.ResponseWriter, r *http.Request, root string) {
	category, country := r.PathValue("category"), r.PathValue("country")
	if strings.Contains(category, "..") || strings.Contains(country, "..") {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}

	entries, err := os.ReadDir(filepath.Join(root, category, country))
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("[Snapshot Host] %s %s - %v", r.Method, r.URL.Path, err)
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}

	idx := remote.Index{Files: make([]remote.IndexEntry, 0, len(entries))}
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == remote.IndexFile {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		size, modTime := fi.Size(), fi.ModTime().UTC()
		idx.Files = append(idx.Files, remote.IndexEntry{Name: e.Name(), Size: &size, ModTime: &modTime})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(idx); err != nil {
		log.Printf("[Snapshot Host] Index write error: %v", err)
	}
}

// withLatency delays every request by a random duration in [latency/3, latency).
func withLatency(next http.Handler, latency time.Duration) http.Handler {
	if latency <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		floor := latency / 3
		time.Sleep(floor + rand.N(latency-floor))
		next.ServeHTTP(w, r)
		log.Printf("[Snapshot Host] %s %s", r.Method, r.URL.Path)
	})
}
