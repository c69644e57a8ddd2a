package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soaringjerry/peerlens/internal/api"
	"github.com/soaringjerry/peerlens/internal/config"
	"github.com/soaringjerry/peerlens/internal/middleware"
	"github.com/soaringjerry/peerlens/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lex, err := services.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		log.Fatalf("lexicon: %v", err)
	}

	router := api.NewRouter(api.Options{
		PseudonymKey:   []byte(cfg.PseudonymKey),
		Lexicon:        lex,
		ScalePoints:    cfg.ScalePoints,
		SummaryWorkers: cfg.SummaryWorkers,
	})

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "peerlens",
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})

	handler := middleware.RequestID(middleware.AccessLog(middleware.NoStore(middleware.SecureHeaders(middleware.CORS(mux)))))
	srv := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Retention > 0 {
		go runRetention(ctx, router, cfg.Retention)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("peerlens server listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// runRetention drops reviews older than retention once an hour until ctx ends.
func runRetention(ctx context.Context, router *api.Router, retention time.Duration) {
	interval := time.Hour
	if retention < interval {
		interval = retention
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := router.CleanupBefore(now.Add(-retention)); n > 0 {
				log.Printf("retention: removed %d reviews older than %s", n, retention)
			}
		}
	}
}
