package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hackgods/vet-appointments/internal/appointment"
	"github.com/hackgods/vet-appointments/internal/config"
)

func fields() appointment.Fields {
	return appointment.Fields{
		PatientName:     "Rex",
		OwnerName:       "Ana",
		OwnerEmail:      "a@x.com",
		AppointmentDate: time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
		Symptoms:        "cough",
	}
}

func TestOpenSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{config.DriverFile, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			path := dir
			if driver == config.DriverSQLite {
				path = filepath.Join(dir, "vet.db")
			}
			cfg := config.Config{
				StorageDriver:  driver,
				StorageKey:     "appointments",
				StoragePath:    path,
				StorageTimeout: time.Second,
				PersistMode:    config.PersistQueue,
			}

			app, err := Open(ctx, cfg, Options{})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			res, err := app.Controller.CreateOrUpdate(ctx, fields(), "")
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := app.Close(ctx); err != nil {
				t.Fatalf("close: %v", err)
			}

			again, err := Open(ctx, cfg, Options{})
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			t.Cleanup(func() { _ = again.Close(ctx) })
			r, ok := again.Controller.SelectForView(res.ID)
			if !ok || r.PatientName != "Rex" {
				t.Fatalf("record lost across restart: %+v ok=%t", r, ok)
			}
		})
	}
}

func TestOpenWithCorruptSlotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "appointments.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	app, err := Open(ctx, config.Config{
		StorageDriver: config.DriverFile,
		StorageKey:    "appointments",
		StoragePath:   dir,
		PersistMode:   config.PersistAsync,
	}, Options{})
	if err != nil {
		t.Fatalf("open must not fail on a corrupt slot: %v", err)
	}
	t.Cleanup(func() { _ = app.Close(ctx) })
	if n := len(app.Controller.List()); n != 0 {
		t.Fatalf("len = %d", n)
	}
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	if _, _, err := OpenStorage(context.Background(), config.Config{StorageDriver: "tape"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteUsesConfirmer(t *testing.T) {
	ctx := context.Background()
	asked := 0
	app, err := Open(ctx, config.Config{StorageDriver: config.DriverMemory, StorageKey: "appointments"}, Options{
		Confirmer: appointment.ConfirmFunc(func(context.Context, appointment.Prompt) (bool, error) {
			asked++
			return false, nil
		}),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = app.Close(ctx) })

	res, _ := app.Controller.CreateOrUpdate(ctx, fields(), "")
	if deleted, err := app.Controller.Delete(ctx, res.ID); err != nil || deleted {
		t.Fatalf("deleted=%t err=%v", deleted, err)
	}
	if asked != 1 || len(app.Controller.List()) != 1 {
		t.Fatalf("asked=%d list=%v", asked, app.Controller.List())
	}
}
