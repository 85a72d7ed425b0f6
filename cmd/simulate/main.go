package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
)

var symptoms = []string{"Coughing", "Limping", "Not eating", "Itchy skin", "Vomiting", "Vaccination"}

type SimConfig struct {
	APIBaseURL  string
	Duration    time.Duration
	Workers     int
	CreateRatio float64
	EditRatio   float64
	DeleteRatio float64
	ReadRatio   float64
}

// DataPool tracks ids the API handed back so edits and reads hit real records.
type DataPool struct {
	mu  sync.RWMutex
	ids []string
}

func (dp *DataPool) Add(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.ids = append(dp.ids, id)
}

func (dp *DataPool) Random(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.ids) == 0 {
		return "", false
	}
	return dp.ids[rng.Intn(len(dp.ids))], true
}

func (dp *DataPool) Remove(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	for i, v := range dp.ids {
		if v == id {
			dp.ids = append(dp.ids[:i], dp.ids[i+1:]...)
			return
		}
	}
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	faker   *gofakeit.Faker
	fakerMu sync.Mutex
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	_ = godotenv.Load()

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d create=%.2f edit=%.2f delete=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.CreateRatio, cfg.EditRatio, cfg.DeleteRatio, cfg.ReadRatio)

	sim := &Simulator{
		config: cfg,
		pool:   &DataPool{},
		client: &http.Client{Timeout: 10 * time.Second},
		faker:  gofakeit.New(uint64(time.Now().UnixNano())),
	}

	sim.Run()
	sim.metrics.PrintReport(cfg.Duration, cfg.Workers)
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 10),
		CreateRatio: getFloat("SIM_CREATE_RATIO", 0.3),
		EditRatio:   getFloat("SIM_EDIT_RATIO", 0.2),
		DeleteRatio: getFloat("SIM_DELETE_RATIO", 0.05),
		ReadRatio:   getFloat("SIM_READ_RATIO", 0.45),
	}

	total := cfg.CreateRatio + cfg.EditRatio + cfg.DeleteRatio + cfg.ReadRatio
	if total > 0 {
		cfg.CreateRatio /= total
		cfg.EditRatio /= total
		cfg.DeleteRatio /= total
		cfg.ReadRatio /= total
	}
	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("SIM_API_BASE_URL is required")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r := rng.Float64()
		switch {
		case r < s.config.CreateRatio:
			s.doCreate(ctx)
		case r < s.config.CreateRatio+s.config.EditRatio:
			s.doEdit(ctx, rng)
		case r < s.config.CreateRatio+s.config.EditRatio+s.config.DeleteRatio:
			s.doDelete(ctx, rng)
		default:
			if rng.Intn(2) == 0 {
				s.doView(ctx, rng)
			} else {
				s.doList(ctx)
			}
		}
	}
}

func (s *Simulator) payload() []byte {
	s.fakerMu.Lock()
	defer s.fakerMu.Unlock()

	now := time.Now()
	body, _ := json.Marshal(map[string]any{
		"patientName":     s.faker.PetName(),
		"ownerName":       s.faker.Name(),
		"ownerEmail":      s.faker.Email(),
		"appointmentDate": s.faker.DateRange(now, now.AddDate(0, 1, 0)).UTC(),
		"ownerPhone":      s.faker.Phone(),
		"symptoms":        s.faker.RandomString(symptoms),
	})
	return body
}

// call sends one request and reports the status, or 0 on transport failure.
func (s *Simulator) call(ctx context.Context, method, url string, body []byte) (int, []byte, time.Duration) {
	start := time.Now()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, time.Since(start)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return 0, nil, latency
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, latency
}

func (s *Simulator) doCreate(ctx context.Context) {
	status, body, latency := s.call(ctx, http.MethodPost, s.config.APIBaseURL+"/appointments", s.payload())
	if status == http.StatusCreated {
		var created struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &created); err == nil && created.ID != "" {
			s.pool.Add(created.ID)
		}
	}
	s.metrics.Create.Record(latency, status == http.StatusCreated, status == http.StatusTooManyRequests)
}

func (s *Simulator) doEdit(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.Random(rng)
	if !ok {
		return
	}
	status, _, latency := s.call(ctx, http.MethodPut, fmt.Sprintf("%s/appointments/%s", s.config.APIBaseURL, id), s.payload())
	if status == http.StatusNotFound {
		s.pool.Remove(id)
	}
	s.metrics.Edit.Record(latency, status == http.StatusOK, status == http.StatusTooManyRequests)
}

func (s *Simulator) doDelete(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.Random(rng)
	if !ok {
		return
	}
	status, _, latency := s.call(ctx, http.MethodDelete, fmt.Sprintf("%s/appointments/%s?confirm=true", s.config.APIBaseURL, id), nil)
	if status == http.StatusNoContent {
		s.pool.Remove(id)
	}
	s.metrics.Delete.Record(latency, status == http.StatusNoContent, status == http.StatusTooManyRequests)
}

func (s *Simulator) doView(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.Random(rng)
	if !ok {
		return
	}
	status, _, latency := s.call(ctx, http.MethodGet, fmt.Sprintf("%s/appointments/%s", s.config.APIBaseURL, id), nil)
	s.metrics.View.Record(latency, status == http.StatusOK, false)
}

func (s *Simulator) doList(ctx context.Context) {
	status, _, latency := s.call(ctx, http.MethodGet, s.config.APIBaseURL+"/appointments", nil)
	s.metrics.List.Record(latency, status == http.StatusOK, false)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
