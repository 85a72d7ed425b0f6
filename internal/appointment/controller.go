package appointment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DeletePrompt is shown before a record is removed.
var DeletePrompt = Prompt{
	Title:   "Do you want to delete this patient?",
	Message: "This action is permanent",
}

type Prompt struct {
	Title   string
	Message string
}

// Confirmer asks the user to approve an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// AlwaysConfirm approves every prompt. Callers that collected consent out of
// band (an HTTP confirm flag) use it.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, Prompt) (bool, error) { return true, nil })

// Event is a lifecycle signal for the UI ("appointment has been created").
type Event struct {
	Outcome Outcome
	ID      string
}

type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type NotifierFunc func(ctx context.Context, ev Event)

func (f NotifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// Notifiers fans an event out to every non-nil notifier.
func Notifiers(ns ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, ev Event) {
		for _, n := range ns {
			if n != nil {
				n.Notify(ctx, ev)
			}
		}
	})
}

// maxIDAttempts bounds how many colliding ids a create tries before giving up.
const maxIDAttempts = 8

// Controller validates submitted form data and turns user intents into Store
// operations.
type Controller struct {
	store     *Store
	ids       IDSource
	clock     Clock
	confirmer Confirmer
	notifier  Notifier
	validate  *validator.Validate
}

type ControllerOption func(*Controller)

func WithIDSource(ids IDSource) ControllerOption {
	return func(c *Controller) { c.ids = ids }
}

func WithClock(clock Clock) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

func WithConfirmer(confirmer Confirmer) ControllerOption {
	return func(c *Controller) { c.confirmer = confirmer }
}

func WithNotifier(n Notifier) ControllerOption {
	return func(c *Controller) { c.notifier = n }
}

func NewController(store *Store, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:    store,
		clock:    SystemClock,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		c.ids = NewMillisIDs(c.clock)
	}
	if c.confirmer == nil {
		c.confirmer = AlwaysConfirm
	}
	return c
}

// CreateOrUpdate validates fields and either appends a new record (empty
// existingID) or overwrites the record with existingID. An id that is not in
// the collection is a silent no-op that still reports OutcomeUpdated.
func (c *Controller) CreateOrUpdate(ctx context.Context, fields Fields, existingID string) (Result, error) {
	if err := c.check(fields); err != nil {
		return Result{}, err
	}

	if existingID != "" {
		if !c.store.Replace(ctx, existingID, fields.record(existingID)) {
			log.Printf("update for missing appointment id=%s ignored", existingID)
		}
		res := Result{ID: existingID, Outcome: OutcomeUpdated}
		c.notify(ctx, res.Outcome, res.ID)
		return res, nil
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("insert appointment: %w", err)
		}
		id := c.ids.NextID()
		err := c.store.Insert(ctx, fields.record(id))
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("insert appointment: %w", err)
		}
		res := Result{ID: id, Outcome: OutcomeCreated}
		c.notify(ctx, res.Outcome, res.ID)
		return res, nil
	}
	return Result{}, fmt.Errorf("insert appointment: %w", ErrDuplicateID)
}

// Delete asks for confirmation and removes the record. It reports whether
// the user confirmed. A missing id is a no-op.
func (c *Controller) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := c.confirmer.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}
	c.store.Remove(ctx, id)
	c.notify(ctx, OutcomeDeleted, id)
	return true, nil
}

func (c *Controller) SelectForEdit(id string) (Record, bool) {
	return c.store.Find(id)
}

func (c *Controller) SelectForView(id string) (Record, bool) {
	return c.store.Find(id)
}

func (c *Controller) List() []Record {
	return c.store.List()
}

// Clock is the time source used for default appointment dates.
func (c *Controller) Clock() Clock { return c.clock }

func (c *Controller) check(fields Fields) error {
	err := c.validate.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate appointment: %w", err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &ValidationError{Fields: missing}
}

func (c *Controller) notify(ctx context.Context, outcome Outcome, id string) {
	log.Printf("appointment %s id=%s", outcome, id)
	if c.notifier != nil {
		c.notifier.Notify(ctx, Event{Outcome: outcome, ID: id})
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
