package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsundin/esett-proxy/internal/config"
	"github.com/jsundin/esett-proxy/internal/engine"
	"github.com/jsundin/esett-proxy/internal/esett"
	"github.com/jsundin/esett-proxy/internal/httpapi"
	"github.com/jsundin/esett-proxy/internal/observability"
	"github.com/jsundin/esett-proxy/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection error: %v", err)
	}
	defer st.Close()

	if err := st.Init(ctx); err != nil {
		log.Fatalf("db init error: %v", err)
	}

	client := esett.NewClient(cfg.EsettBaseURL, cfg.UpstreamTimeout, logger)
	metrics := observability.NewMetrics()
	eng := engine.New(st, client, cfg.CompletenessThreshold, metrics, logger)

	srv := httpapi.New(cfg, eng)
	log.Printf("eSett proxy listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
