package api

import (
	"time"

	"github.com/hackgods/vet-appointments/internal/appointment"
)

type AppointmentRequest struct {
	PatientName     string    `json:"patientName"`
	OwnerName       string    `json:"ownerName"`
	OwnerEmail      string    `json:"ownerEmail"`
	AppointmentDate time.Time `json:"appointmentDate"`
	OwnerPhone      string    `json:"ownerPhone"`
	Symptoms        string    `json:"symptoms"`
}

func (req AppointmentRequest) fields() appointment.Fields {
	return appointment.Fields{
		PatientName:     req.PatientName,
		OwnerName:       req.OwnerName,
		OwnerEmail:      req.OwnerEmail,
		AppointmentDate: req.AppointmentDate,
		OwnerPhone:      req.OwnerPhone,
		Symptoms:        req.Symptoms,
	}
}

type AppointmentResponse struct {
	ID                     string    `json:"id"`
	PatientName            string    `json:"patientName"`
	OwnerName              string    `json:"ownerName"`
	OwnerEmail             string    `json:"ownerEmail"`
	AppointmentDate        time.Time `json:"appointmentDate"`
	AppointmentDateDisplay string    `json:"appointmentDateDisplay"`
	OwnerPhone             string    `json:"ownerPhone"`
	Symptoms               string    `json:"symptoms"`
}

func toResponse(r appointment.Record) AppointmentResponse {
	return AppointmentResponse{
		ID:                     r.ID,
		PatientName:            r.PatientName,
		OwnerName:              r.OwnerName,
		OwnerEmail:             r.OwnerEmail,
		AppointmentDate:        r.AppointmentDate,
		AppointmentDateDisplay: appointment.FormatDate(r.AppointmentDate),
		OwnerPhone:             r.OwnerPhone,
		Symptoms:               r.Symptoms,
	}
}

type ListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Count        int                   `json:"count"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}
