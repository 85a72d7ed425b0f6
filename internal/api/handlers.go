package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/vet-appointments/internal/appointment"
)

func listAppointmentsHandler(ctrl *appointment.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := ctrl.List()
		resp := ListResponse{Appointments: make([]AppointmentResponse, 0, len(records)), Count: len(records)}
		for _, rec := range records {
			resp.Appointments = append(resp.Appointments, toResponse(rec))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(ctrl *appointment.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, ok := ctrl.SelectForView(id)
		if !ok {
			writeError(w, http.StatusNotFound, "appointment_not_found", "no appointment with id "+id)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(rec))
	}
}

// createAppointmentHandler dates a request without appointmentDate at the
// controller's current time, like a blank form.
func createAppointmentHandler(ctrl *appointment.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := req.fields()
		if fields.AppointmentDate.IsZero() {
			fields.AppointmentDate = ctrl.Clock().Now()
		}
		res, err := ctrl.CreateOrUpdate(r.Context(), fields, "")
		if err != nil {
			handleSubmitError(w, err)
			return
		}
		rec, _ := ctrl.SelectForView(res.ID)
		writeJSON(w, http.StatusCreated, toResponse(rec))
	}
}

// updateAppointmentHandler keeps the stored date when the request omits it.
func updateAppointmentHandler(ctrl *appointment.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		current, ok := ctrl.SelectForEdit(id)
		if !ok {
			writeError(w, http.StatusNotFound, "appointment_not_found", "no appointment with id "+id)
			return
		}

		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := req.fields()
		if fields.AppointmentDate.IsZero() {
			fields.AppointmentDate = current.AppointmentDate
		}
		if _, err := ctrl.CreateOrUpdate(r.Context(), fields, id); err != nil {
			handleSubmitError(w, err)
			return
		}
		rec, ok := ctrl.SelectForView(id)
		if !ok {
			// removed between the check and the write
			writeError(w, http.StatusNotFound, "appointment_not_found", "no appointment with id "+id)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(rec))
	}
}

// deleteAppointmentHandler requires ?confirm=true, the HTTP form of the
// delete prompt.
func deleteAppointmentHandler(ctrl *appointment.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			writeJSON(w, http.StatusPreconditionRequired, ErrorResponse{
				Error:   "confirmation_required",
				Details: appointment.DeletePrompt.Title + " " + appointment.DeletePrompt.Message,
			})
			return
		}

		deleted, err := ctrl.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if !deleted {
			writeError(w, http.StatusConflict, "delete_declined", "deletion was not confirmed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSubmitError(w http.ResponseWriter, err error) {
	var verr *appointment.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Details: appointment.ErrFieldsRequired.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, appointment.ErrFieldsRequired):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
