package appointment

import (
	"time"
	"unicode/utf8"
)

// PhoneMaxLen is the soft cap on ownerPhone; longer input is truncated.
const PhoneMaxLen = 10

// Record is one appointment entry as held by the Store and persisted in the
// storage slot.
type Record struct {
	ID              string    `json:"id"`
	PatientName     string    `json:"patientName"`
	OwnerName       string    `json:"ownerName"`
	OwnerEmail      string    `json:"ownerEmail"`
	AppointmentDate time.Time `json:"appointmentDate"`
	OwnerPhone      string    `json:"ownerPhone"`
	Symptoms        string    `json:"symptoms"`
}

// Fields are the user-editable parts of a Record.
type Fields struct {
	PatientName     string    `json:"patientName" validate:"required"`
	OwnerName       string    `json:"ownerName" validate:"required"`
	OwnerEmail      string    `json:"ownerEmail" validate:"required"`
	AppointmentDate time.Time `json:"appointmentDate" validate:"required"`
	OwnerPhone      string    `json:"ownerPhone"`
	Symptoms        string    `json:"symptoms" validate:"required"`
}

// DefaultFields is the blank form: every text field empty and the date set
// to now.
func DefaultFields(now time.Time) Fields {
	return Fields{AppointmentDate: now}
}

// Fields returns the editable part of r.
func (r Record) Fields() Fields {
	return Fields{
		PatientName:     r.PatientName,
		OwnerName:       r.OwnerName,
		OwnerEmail:      r.OwnerEmail,
		AppointmentDate: r.AppointmentDate,
		OwnerPhone:      r.OwnerPhone,
		Symptoms:        r.Symptoms,
	}
}

func (f Fields) record(id string) Record {
	return Record{
		ID:              id,
		PatientName:     f.PatientName,
		OwnerName:       f.OwnerName,
		OwnerEmail:      f.OwnerEmail,
		AppointmentDate: f.AppointmentDate,
		OwnerPhone:      truncatePhone(f.OwnerPhone),
		Symptoms:        f.Symptoms,
	}
}

func truncatePhone(phone string) string {
	if utf8.RuneCountInString(phone) <= PhoneMaxLen {
		return phone
	}
	return string([]rune(phone)[:PhoneMaxLen])
}

// Mode is the state of a form session.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeCreating Mode = "creating"
	ModeEditing  Mode = "editing"
	ModeViewing  Mode = "viewing"
)

// Outcome is what a successful lifecycle operation did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeDeleted Outcome = "deleted"
)

// RecordAction is an intent aimed at one listed record.
type RecordAction int

const (
	ActionEdit RecordAction = iota + 1
	ActionView
	ActionDelete
)

func (a RecordAction) String() string {
	switch a {
	case ActionEdit:
		return "edit"
	case ActionView:
		return "view"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Result reports a successful create or update.
type Result struct {
	ID      string
	Outcome Outcome
}
