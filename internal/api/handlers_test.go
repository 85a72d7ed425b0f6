package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hackgods/vet-appointments/internal/appointment"
	"github.com/hackgods/vet-appointments/internal/metrics"
	"github.com/hackgods/vet-appointments/internal/storage"
)

type counterIDs struct{ n int }

func (c *counterIDs) NextID() string {
	c.n++
	return strconv.Itoa(c.n)
}

var serverNow = time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC)

type testServer struct {
	handler http.Handler
	store   *appointment.Store
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()
	store := appointment.NewStore(storage.NewMemory())
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, store.Len)
	ctrl := appointment.NewController(store,
		appointment.WithIDSource(&counterIDs{}),
		appointment.WithNotifier(m),
		appointment.WithClock(appointment.ClockFunc(func() time.Time { return serverNow })),
	)
	return &testServer{
		handler: NewRouter(RouterConfig{
			Controller:  ctrl,
			Provider:    storage.NewMemory(),
			Gatherer:    reg,
			RateLimiter: limiter,
			Env:         "test",
			Version:     "v0",
		}),
		store: store,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func rex() AppointmentRequest {
	return AppointmentRequest{
		PatientName:     "Rex",
		OwnerName:       "Ana",
		OwnerEmail:      "a@x.com",
		AppointmentDate: time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
		OwnerPhone:      "5551234",
		Symptoms:        "cough",
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/appointments", rex())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body)
	}
	created := decode[AppointmentResponse](t, rec)
	if created.ID != "1" || created.AppointmentDateDisplay != "Monday, 4 March 2024" {
		t.Fatalf("created = %+v", created)
	}

	update := rex()
	update.Symptoms = "limp"
	rec = s.do(t, http.MethodPut, "/appointments/1", update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body)
	}
	if got := decode[AppointmentResponse](t, rec); got.Symptoms != "limp" {
		t.Fatalf("updated = %+v", got)
	}

	rec = s.do(t, http.MethodGet, "/appointments", nil)
	list := decode[ListResponse](t, rec)
	if list.Count != 1 || list.Appointments[0].Symptoms != "limp" {
		t.Fatalf("list = %+v", list)
	}

	rec = s.do(t, http.MethodDelete, "/appointments/1?confirm=true", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec = s.do(t, http.MethodGet, "/appointments/1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name  string
		body  any
		code  int
		error string
	}{
		{"missing owner", func() AppointmentRequest { r := rex(); r.OwnerName = ""; return r }(), http.StatusBadRequest, "validation_failed"},
		{"bad json", "not an object", http.StatusBadRequest, "invalid_request_body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/appointments", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := decode[ErrorResponse](t, rec); got.Error != tt.error {
				t.Fatalf("error = %+v", got)
			}
		})
	}
	if s.store.Len() != 0 {
		t.Fatalf("store len = %d after rejected creates", s.store.Len())
	}
}

func TestValidationListsFields(t *testing.T) {
	s := newTestServer(t, nil)
	req := rex()
	req.PatientName = ""
	req.Symptoms = ""
	got := decode[ErrorResponse](t, s.do(t, http.MethodPost, "/appointments", req))
	if len(got.Fields) != 2 || got.Fields[0] != "patientName" || got.Fields[1] != "symptoms" {
		t.Fatalf("fields = %v", got.Fields)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPut, "/appointments/404", rex())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if s.store.Len() != 0 {
		t.Fatal("update of a missing id must not create a record")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPost, "/appointments", rex())

	rec := s.do(t, http.MethodDelete, "/appointments/1", nil)
	if rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[ErrorResponse](t, rec); got.Error != "confirmation_required" {
		t.Fatalf("error = %+v", got)
	}
	if s.store.Len() != 1 {
		t.Fatal("record removed without confirmation")
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newTestServer(t, NewRateLimiter(ctx, 0.001, 2))

	for i := 0; i < 2; i++ {
		if rec := s.do(t, http.MethodPost, "/appointments", rex()); rec.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec := s.do(t, http.MethodPost, "/appointments", rex())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}
	// reads are not limited
	if rec := s.do(t, http.MethodGet, "/appointments", nil); rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPost, "/appointments", rex())

	rec := s.do(t, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready = %d", rec.Code)
	}
	if got := decode[ReadinessResponse](t, rec); got.Dependencies["memory"] != "ok" {
		t.Fatalf("ready = %+v", got)
	}

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	if !bytes.Contains(rec.Body.Bytes(), []byte(`vet_appointment_events_total{outcome="created"} 1`)) {
		t.Fatalf("metrics missing created counter:\n%s", rec.Body)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("request id = %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestMissingDateDefaults(t *testing.T) {
	s := newTestServer(t, nil)

	req := rex()
	req.AppointmentDate = time.Time{}
	rec := s.do(t, http.MethodPost, "/appointments", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body)
	}
	created := decode[AppointmentResponse](t, rec)
	if !created.AppointmentDate.Equal(serverNow) || created.AppointmentDateDisplay != "Wednesday, 6 March 2024" {
		t.Fatalf("created = %+v", created)
	}

	// an edit without a date keeps the stored one
	stored := rex()
	s.do(t, http.MethodPut, "/appointments/"+created.ID, stored)
	update := rex()
	update.AppointmentDate = time.Time{}
	update.Symptoms = "limp"
	rec = s.do(t, http.MethodPut, "/appointments/"+created.ID, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body)
	}
	if got := decode[AppointmentResponse](t, rec); !got.AppointmentDate.Equal(stored.AppointmentDate) || got.Symptoms != "limp" {
		t.Fatalf("updated = %+v", got)
	}
}
