package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkravets/formflow/internal/api"
	"github.com/mkravets/formflow/internal/auth"
	"github.com/mkravets/formflow/internal/config"
	"github.com/mkravets/formflow/internal/snapshot"
	"github.com/mkravets/formflow/internal/store"
	"github.com/mkravets/formflow/internal/submit"
	"github.com/mkravets/formflow/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	telemetry.Init()

	// initial snapshot
	all, err := st.GetAllForms(ctx, cfg.Env)
	if err != nil {
		log.Fatalf("load forms: %v", err)
	}
	snap := snapshot.Build(all, cfg.Env)
	snapshot.Update(snap)
	telemetry.SnapshotForms.Set(float64(len(snap.Forms)))
	log.Printf("snapshot: %d forms, etag=%s", len(snap.Forms), snap.ETag)

	// submission pipeline
	dispatcher := submit.NewDispatcher(st, cfg.SubmitWebhookURL)
	dispatcher.Start()
	defer dispatcher.Close()

	authn := auth.NewAuthenticator(cfg.AdminAPIKey, cfg.AdminKeyHashes)

	// API server with deps
	srvAPI := api.NewServer(st, cfg.Env, authn, dispatcher, cfg.RateLimitPerIP)
	srvAPI.RequestTimeout = time.Duration(cfg.ResolveTimeoutMS) * time.Millisecond

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srvAPI.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	// metrics on a separate listener
	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.Handler(),
	}
	go func() {
		log.Printf("metrics on %s", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics server: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	log.Println("stopped")
}
