// Package metrics exposes Prometheus collectors for the appointment
// lifecycle and its storage slot.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hackgods/vet-appointments/internal/appointment"
)

type Collector struct {
	lifecycle     *prometheus.CounterVec
	storageErrors *prometheus.CounterVec
	records       prometheus.GaugeFunc
}

// New registers the collectors on reg. count reports the current collection
// size for the records gauge.
func New(reg prometheus.Registerer, count func() int) *Collector {
	c := &Collector{
		lifecycle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vet",
			Name:      "appointment_events_total",
			Help:      "Appointments created, updated and deleted.",
		}, []string{"outcome"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vet",
			Name:      "storage_errors_total",
			Help:      "Failed loads and persists against the storage slot.",
		}, []string{"op"}),
		records: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "vet",
			Name:      "appointments",
			Help:      "Appointments currently held in memory.",
		}, func() float64 {
			if count == nil {
				return 0
			}
			return float64(count())
		}),
	}
	reg.MustRegister(c.lifecycle, c.storageErrors, c.records)
	return c
}

// Notify implements appointment.Notifier.
func (c *Collector) Notify(_ context.Context, ev appointment.Event) {
	c.lifecycle.WithLabelValues(string(ev.Outcome)).Inc()
}

// StorageError matches appointment.ErrorHook.
func (c *Collector) StorageError(op string, _ error) {
	c.storageErrors.WithLabelValues(op).Inc()
}
