package client

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"
)

// FormState is the submission state of one booking attempt.
type FormState int

const (
	StateIdle FormState = iota
	StateSubmitting
	StateConfirmed
)

func (s FormState) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	case StateIdle:
		return "idle"
	}

	return "idle"
}

// Field keys for per-field validation messages.
const (
	FieldClientName  = "client_name"
	FieldClientPhone = "client_phone"
	FieldServiceID   = "service_id"
	FieldDate        = "date"
	FieldSlot        = "slot"
)

const (
	minNameLength  = 2
	maxNameLength  = 40
	minPhoneDigits = 8
	maxPhoneDigits = 15

	msgNameLength      = "please enter a name between 2 and 40 characters"
	msgPhoneInvalid    = "please enter a valid phone number (8 to 15 digits)"
	msgServiceRequired = "please choose a service"
	msgDateRequired    = "please choose a date"
	msgSlotRequired    = "please choose a time slot"

	msgSlotConflict = "that time slot has just been booked, please pick another one"
	msgSubmitFailed = "could not complete your booking, please try again"
)

// ErrSubmitInProgress guards against double submission: a second Submit
// while one is in flight is rejected without a network call.
var ErrSubmitInProgress = errors.New("a booking submission is already in progress")

var (
	phoneCharset = regexp.MustCompile(`^[0-9+()\- ]+$`)
	phoneDigits  = regexp.MustCompile(`\D`)
)

// FieldErrors maps field keys to user-facing validation messages. These
// never reach the server; submission is blocked while any field fails.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "booking form has invalid fields"
}

// SubmitFailure is a failed submission after validation passed. Message is
// user-facing: specific for conflicts, the server's own text for rate
// limits, generic otherwise.
type SubmitFailure struct {
	Message     string
	Conflict    bool
	RateLimited bool
	cause       error
}

func (f *SubmitFailure) Error() string {
	return f.Message
}

func (f *SubmitFailure) Unwrap() error {
	return f.cause
}

type appointmentCreator interface {
	CreateAppointment(ctx context.Context, intent BookingIntent) (Confirmation, error)
}

type occupancyTracker interface {
	SelectScope(serviceID, date string)
	Select(slot string) bool
	Selected() string
	MarkOccupied(slot string)
	Refresh(indicator bool)
}

// Form drives one booking attempt through Idle, Submitting and Confirmed.
// The occupied-slot set it consults is a hint only; when the server reports
// a conflict the form reconciles by forcing a fresh availability fetch
// before the user retries.
type Form struct {
	api     appointmentCreator
	tracker occupancyTracker
	loc     *time.Location

	mu        sync.Mutex
	state     FormState
	name      string
	phone     string
	serviceID string
	date      string
	slot      string
	notes     string
}

func NewForm(api appointmentCreator, tracker occupancyTracker, loc *time.Location) *Form {
	if loc == nil {
		loc = time.UTC
	}

	return &Form{
		api:     api,
		tracker: tracker,
		loc:     loc,
	}
}

func (f *Form) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.name = name
}

func (f *Form) SetPhone(phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.phone = phone
}

func (f *Form) SetNotes(notes string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notes = notes
}

// SetService switches the tracked availability scope. The slot choice is
// dropped because it belonged to the old scope.
func (f *Form) SetService(serviceID string) {
	f.mu.Lock()
	f.serviceID = serviceID
	f.slot = ""
	date := f.date
	f.mu.Unlock()

	f.tracker.SelectScope(serviceID, date)
}

// SetDate switches the tracked availability scope. The slot choice is
// dropped because it belonged to the old scope.
func (f *Form) SetDate(date string) {
	f.mu.Lock()
	f.date = date
	f.slot = ""
	serviceID := f.serviceID
	f.mu.Unlock()

	f.tracker.SelectScope(serviceID, date)
}

// SetSlot records the slot choice. It returns false when the slot is
// already known to be occupied.
func (f *Form) SetSlot(slot string) bool {
	if !f.tracker.Select(slot) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.slot = slot

	return true
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// Validate runs the client-side fast-fail checks and returns one message
// per failing field. It never consults the server.
func (f *Form) Validate() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.validateLocked()
}

func (f *Form) validateLocked() FieldErrors {
	fieldErrors := FieldErrors{}

	name := normalizeName(f.name)
	if len(name) < minNameLength || len(name) > maxNameLength {
		fieldErrors[FieldClientName] = msgNameLength
	}

	phone := strings.TrimSpace(f.phone)
	digits := phoneDigits.ReplaceAllString(phone, "")

	if phone == "" || !phoneCharset.MatchString(phone) ||
		len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		fieldErrors[FieldClientPhone] = msgPhoneInvalid
	}

	if f.serviceID == "" {
		fieldErrors[FieldServiceID] = msgServiceRequired
	}

	if f.date == "" {
		fieldErrors[FieldDate] = msgDateRequired
	}

	switch {
	case f.slot == "":
		fieldErrors[FieldSlot] = msgSlotRequired
	case f.tracker.Selected() != f.slot:
		// A refresh saw the slot taken and cleared the tracked
		// selection; the stale choice must not reach the server.
		f.slot = ""
		fieldErrors[FieldSlot] = msgSlotConflict
	}

	return fieldErrors
}

// Submit validates, sends the booking intent and reconciles the outcome.
//
// Success marks the slot occupied locally (optimistic, no re-fetch) and
// moves to Confirmed. A conflict forces a fresh indicator-visible
// availability fetch so the picker reflects reality before the user
// retries. A rate limit surfaces the server's message verbatim with no
// retry. Any other failure triggers a best-effort background re-fetch.
func (f *Form) Submit(ctx context.Context) (Confirmation, error) {
	f.mu.Lock()

	if f.state == StateSubmitting {
		f.mu.Unlock()

		return Confirmation{}, ErrSubmitInProgress
	}

	if fieldErrors := f.validateLocked(); len(fieldErrors) > 0 {
		f.mu.Unlock()

		return Confirmation{}, fieldErrors
	}

	at, err := CombineDateSlot(f.date, f.slot, f.loc)
	if err != nil {
		f.mu.Unlock()

		return Confirmation{}, FieldErrors{FieldDate: msgDateRequired}
	}

	intent := BookingIntent{
		ClientName:    normalizeName(f.name),
		ClientPhone:   strings.TrimSpace(f.phone),
		ServiceID:     f.serviceID,
		AppointmentAt: at,
		Notes:         strings.TrimSpace(f.notes),
	}
	slot := f.slot
	f.state = StateSubmitting

	f.mu.Unlock()

	confirmation, err := f.api.CreateAppointment(ctx, intent)
	if err != nil {
		f.mu.Lock()
		f.state = StateIdle
		f.mu.Unlock()

		return Confirmation{}, f.reconcile(err)
	}

	f.tracker.MarkOccupied(slot)

	f.mu.Lock()
	f.state = StateConfirmed
	f.mu.Unlock()

	return confirmation, nil
}

func (f *Form) reconcile(err error) error {
	switch {
	case IsConflict(err):
		f.tracker.Refresh(true)

		return &SubmitFailure{Message: msgSlotConflict, Conflict: true, cause: err}
	case IsRateLimited(err):
		message := msgSubmitFailed

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			message = apiErr.Message
		}

		return &SubmitFailure{Message: message, RateLimited: true, cause: err}
	default:
		f.tracker.Refresh(false)

		return &SubmitFailure{Message: msgSubmitFailed, cause: err}
	}
}

// Reset clears every field and the tracked availability scope, returning
// to Idle for a fresh booking.
func (f *Form) Reset() {
	f.mu.Lock()

	f.name, f.phone, f.serviceID, f.date, f.slot, f.notes = "", "", "", "", "", ""
	f.state = StateIdle

	f.mu.Unlock()

	f.tracker.SelectScope("", "")
}

// normalizeName trims and collapses internal whitespace, mirroring the
// server's own normalization.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
