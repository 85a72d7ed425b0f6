package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hackgods/vet-appointments/internal/bootstrap"
	"github.com/hackgods/vet-appointments/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	con := newConsole(os.Stdin, os.Stdout)
	app, err := bootstrap.Open(ctx, cfg, bootstrap.Options{Confirmer: con, Notifier: con})
	if err != nil {
		log.Fatalf("storage open error: %v", err)
	}
	con.ctrl = app.Controller

	runErr := con.run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		log.Printf("storage close error: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("console: %v", runErr)
	}
}
