package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/vet-appointments/internal/api"
	"github.com/hackgods/vet-appointments/internal/bootstrap"
	"github.com/hackgods/vet-appointments/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s storage=%s", cfg.Env, cfg.HTTPPort, cfg.StorageDriver)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancelOpen := context.WithTimeout(rootCtx, 10*time.Second)
	app, err := bootstrap.Open(openCtx, cfg, bootstrap.Options{})
	cancelOpen()
	if err != nil {
		log.Fatalf("storage open error: %v", err)
	}
	log.Printf("loaded %d appointments", len(app.Controller.List()))

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.RouterConfig{
			Controller:  app.Controller,
			Provider:    app.Provider,
			Gatherer:    app.Registry,
			RateLimiter: api.NewRateLimiter(rootCtx, cfg.RateLimitRPS, cfg.RateLimitBurst),
			Env:         cfg.Env,
			Version:     cfg.Version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := app.Close(shutdownCtx); err != nil {
		log.Printf("storage close error: %v", err)
	}
	log.Println("api-server stopped")
}
