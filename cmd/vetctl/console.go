package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hackgods/vet-appointments/internal/appointment"
)

const helpText = `commands:
  list                  show all appointments
  new                   open an empty form
  edit <id>             open the form for an appointment
  view <id>             show an appointment read-only
  delete <id>           delete an appointment (asks first)
  set <field> <value>   patientName, ownerName, ownerEmail, ownerPhone, symptoms
  date <value>          appointment date, "2006-01-02 15:04" or "2006-01-02"
  show                  print the open form
  submit                save the open form
  cancel                discard the open form
  close                 leave the read-only view
  help                  this text
  quit                  exit`

var dateInputs = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// console is a line-oriented front end. It also answers the controller's
// delete prompt and prints its notifications.
type console struct {
	in      *bufio.Scanner
	out     io.Writer
	ctrl    *appointment.Controller
	session appointment.Session
	loc     *time.Location
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{
		in:      bufio.NewScanner(in),
		out:     out,
		session: appointment.IdleSession(),
		loc:     time.Local,
	}
}

func (c *console) Confirm(_ context.Context, p appointment.Prompt) (bool, error) {
	fmt.Fprintf(c.out, "%s %s [y/n]: ", p.Title, p.Message)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return false, err
		}
		return false, io.EOF
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes", nil
}

func (c *console) Notify(_ context.Context, ev appointment.Event) {
	verb := string(ev.Outcome)
	if ev.Outcome == appointment.OutcomeUpdated {
		verb = "edited"
	}
	fmt.Fprintf(c.out, "Appointment has been %s\n", verb)
}

func (c *console) prompt() {
	if title := c.session.Title(); title != "" {
		fmt.Fprintf(c.out, "%s> ", title)
		return
	}
	fmt.Fprint(c.out, "> ")
}

// run reads commands until quit or end of input.
func (c *console) run(ctx context.Context) error {
	fmt.Fprintln(c.out, `type "help" for commands`)
	for {
		c.prompt()
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := c.exec(ctx, cmd, arg); err != nil {
			c.report(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *console) exec(ctx context.Context, cmd, arg string) error {
	var err error
	switch cmd {
	case "help":
		fmt.Fprintln(c.out, helpText)
	case "list":
		c.list()
	case "new":
		c.session, err = c.ctrl.New(c.session)
		if err == nil {
			c.show()
		}
	case "edit", "view", "delete":
		if arg == "" {
			return fmt.Errorf("usage: %s <id>", cmd)
		}
		err = c.dispatch(ctx, cmd, arg)
	case "set":
		field, value, _ := strings.Cut(arg, " ")
		err = c.set(field, strings.TrimSpace(value))
	case "date":
		err = c.setDate(arg)
	case "show":
		c.show()
	case "submit":
		var res appointment.Result
		c.session, res, err = c.ctrl.Submit(ctx, c.session)
		if err == nil {
			fmt.Fprintf(c.out, "saved id=%s\n", res.ID)
		}
	case "cancel":
		c.session, err = c.ctrl.Cancel(c.session)
	case "close":
		c.session, err = c.ctrl.Close(c.session)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	return err
}

func (c *console) dispatch(ctx context.Context, cmd, id string) error {
	var action appointment.RecordAction
	switch cmd {
	case "edit":
		action = appointment.ActionEdit
	case "view":
		action = appointment.ActionView
	case "delete":
		action = appointment.ActionDelete
	}

	next, deleted, err := c.ctrl.Dispatch(ctx, c.session, id, action)
	c.session = next
	if err != nil {
		return err
	}
	if action == appointment.ActionDelete {
		if !deleted {
			fmt.Fprintln(c.out, "delete cancelled")
		}
		return nil
	}
	c.show()
	return nil
}

func (c *console) set(field, value string) error {
	var apply func(*appointment.Fields)
	switch field {
	case "patientName":
		apply = func(f *appointment.Fields) { f.PatientName = value }
	case "ownerName":
		apply = func(f *appointment.Fields) { f.OwnerName = value }
	case "ownerEmail":
		apply = func(f *appointment.Fields) { f.OwnerEmail = value }
	case "ownerPhone":
		apply = func(f *appointment.Fields) { f.OwnerPhone = value }
	case "symptoms":
		apply = func(f *appointment.Fields) { f.Symptoms = value }
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	var err error
	c.session, err = c.ctrl.Update(c.session, apply)
	return err
}

func (c *console) setDate(value string) error {
	for _, layout := range dateInputs {
		t, err := time.ParseInLocation(layout, value, c.loc)
		if err != nil {
			continue
		}
		var uerr error
		c.session, uerr = c.ctrl.Update(c.session, func(f *appointment.Fields) { f.AppointmentDate = t })
		return uerr
	}
	return fmt.Errorf("cannot read date %q, use %q", value, dateInputs[0])
}

func (c *console) list() {
	records := c.ctrl.List()
	if len(records) == 0 {
		fmt.Fprintln(c.out, "no appointments")
		return
	}
	for _, r := range records {
		fmt.Fprintf(c.out, "%-14s %-16s %-20s %s\n", r.ID, r.PatientName, r.OwnerName, appointment.FormatDate(r.AppointmentDate))
	}
}

func (c *console) show() {
	if c.session.Mode == appointment.ModeIdle {
		fmt.Fprintln(c.out, "no form open")
		return
	}
	f := c.session.Fields
	fmt.Fprintln(c.out, c.session.Title())
	if c.session.ID != "" {
		fmt.Fprintf(c.out, "  id:              %s\n", c.session.ID)
	}
	fmt.Fprintf(c.out, "  patientName:     %s\n", f.PatientName)
	fmt.Fprintf(c.out, "  ownerName:       %s\n", f.OwnerName)
	fmt.Fprintf(c.out, "  ownerEmail:      %s\n", f.OwnerEmail)
	fmt.Fprintf(c.out, "  appointmentDate: %s\n", appointment.FormatDate(f.AppointmentDate))
	fmt.Fprintf(c.out, "  ownerPhone:      %s\n", f.OwnerPhone)
	fmt.Fprintf(c.out, "  symptoms:        %s\n", f.Symptoms)
}

func (c *console) report(err error) {
	var verr *appointment.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(c.out, "All fields are required (missing %s)\n", strings.Join(verr.Fields, ", "))
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		fmt.Fprintln(c.out, "That appointment no longer exists")
	case errors.Is(err, appointment.ErrInvalidTransition):
		fmt.Fprintf(c.out, "not now: %v\n", err)
	default:
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}
