package appointment

import (
	"context"
	"fmt"
)

// Session is the transient state of one form: which mode it is in, the id
// being edited or viewed, and the field values typed so far. Controller
// session methods take the current Session and return the next one.
type Session struct {
	Mode   Mode
	ID     string
	Fields Fields
}

// IdleSession is the closed form.
func IdleSession() Session {
	return Session{Mode: ModeIdle}
}

// Title is the form heading for the session's mode.
func (s Session) Title() string {
	switch s.Mode {
	case ModeCreating:
		return "New Appointment"
	case ModeEditing:
		return "Edit Appointment"
	case ModeViewing:
		return "View Appointment"
	default:
		return ""
	}
}

func (s Session) editable() bool {
	return s.Mode == ModeCreating || s.Mode == ModeEditing
}

func transitionError(from Mode, intent string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, intent, from)
}

// New opens an empty form dated now.
func (c *Controller) New(s Session) (Session, error) {
	if s.Mode != ModeIdle {
		return s, transitionError(s.Mode, "new")
	}
	return Session{Mode: ModeCreating, Fields: DefaultFields(c.clock.Now())}, nil
}

// Edit opens the form pre-filled from the record with id. A vanished id
// leaves the session idle and returns ErrAppointmentNotFound.
func (c *Controller) Edit(s Session, id string) (Session, error) {
	if s.Mode != ModeIdle {
		return s, transitionError(s.Mode, "edit")
	}
	rec, ok := c.SelectForEdit(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	return Session{Mode: ModeEditing, ID: rec.ID, Fields: rec.Fields()}, nil
}

// View opens the read-only display of the record with id.
func (c *Controller) View(s Session, id string) (Session, error) {
	if s.Mode != ModeIdle {
		return s, transitionError(s.Mode, "view")
	}
	rec, ok := c.SelectForView(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	return Session{Mode: ModeViewing, ID: rec.ID, Fields: rec.Fields()}, nil
}

// Update applies fn to the form fields of an editable session.
func (c *Controller) Update(s Session, fn func(*Fields)) (Session, error) {
	if !s.editable() {
		return s, transitionError(s.Mode, "update")
	}
	fn(&s.Fields)
	s.Fields.OwnerPhone = truncatePhone(s.Fields.OwnerPhone)
	return s, nil
}

// Submit saves the form. On a validation error the session comes back
// unchanged so the user can fix it; on success the form is cleared.
func (c *Controller) Submit(ctx context.Context, s Session) (Session, Result, error) {
	if !s.editable() {
		return s, Result{}, transitionError(s.Mode, "submit")
	}
	id := ""
	if s.Mode == ModeEditing {
		id = s.ID
	}
	res, err := c.CreateOrUpdate(ctx, s.Fields, id)
	if err != nil {
		return s, Result{}, err
	}
	return IdleSession(), res, nil
}

// Cancel discards a creating or editing form.
func (c *Controller) Cancel(s Session) (Session, error) {
	if !s.editable() {
		return s, transitionError(s.Mode, "cancel")
	}
	return IdleSession(), nil
}

// Close leaves the read-only view.
func (c *Controller) Close(s Session) (Session, error) {
	if s.Mode != ModeViewing {
		return s, transitionError(s.Mode, "close")
	}
	return IdleSession(), nil
}

// Dispatch routes a per-record action from the list. Delete keeps the
// session as it is and reports whether the record was removed.
func (c *Controller) Dispatch(ctx context.Context, s Session, id string, action RecordAction) (Session, bool, error) {
	switch action {
	case ActionEdit:
		next, err := c.Edit(s, id)
		return next, false, err
	case ActionView:
		next, err := c.View(s, id)
		return next, false, err
	case ActionDelete:
		if s.Mode != ModeIdle {
			return s, false, transitionError(s.Mode, "delete")
		}
		deleted, err := c.Delete(ctx, id)
		return s, deleted, err
	default:
		return s, false, fmt.Errorf("%w: %d", ErrUnknownAction, int(action))
	}
}
