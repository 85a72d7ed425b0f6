package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/vet-appointments/internal/appointment"
	"github.com/hackgods/vet-appointments/internal/bootstrap"
	"github.com/hackgods/vet-appointments/internal/config"
)

var symptoms = []string{
	"Coughing and sneezing",
	"Not eating for two days",
	"Limping on front left leg",
	"Itchy skin and hair loss",
	"Vomiting after meals",
	"Annual vaccination",
	"Lethargic, sleeping more than usual",
	"Ear scratching and head shaking",
	"Dental check, bad breath",
	"Swelling near the tail",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	count := 50
	if v := os.Getenv("SEED_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Fatalf("invalid SEED_COUNT %q", v)
		}
		count = n
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app, err := bootstrap.Open(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("storage open error: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), app.Controller, count); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	closeCtx, cancelClose := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelClose()
	if err := app.Close(closeCtx); err != nil {
		log.Fatalf("flush appointments: %v", err)
	}

	log.Printf("seed complete, %d appointments stored", len(app.Controller.List()))
}

func seedAppointments(ctx context.Context, ctrl *appointment.Controller, count int) error {
	log.Printf("seeding %d appointments", count)

	now := time.Now()
	for i := 0; i < count; i++ {
		fields := appointment.Fields{
			PatientName:     gofakeit.PetName(),
			OwnerName:       gofakeit.Name(),
			OwnerEmail:      gofakeit.Email(),
			AppointmentDate: gofakeit.DateRange(now, now.AddDate(0, 2, 0)).Truncate(time.Minute),
			OwnerPhone:      gofakeit.Phone(),
			Symptoms:        gofakeit.RandomString(symptoms),
		}
		if _, err := ctrl.CreateOrUpdate(ctx, fields, ""); err != nil {
			return err
		}
		if (i+1)%10 == 0 {
			log.Printf("appointments seeded: %d/%d", i+1, count)
		}
	}

	log.Println("appointments seeded")
	return nil
}
