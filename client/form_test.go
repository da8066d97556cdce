package client

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	mu           sync.Mutex
	calls        int
	lastIntent   BookingIntent
	confirmation Confirmation
	err          error

	started chan struct{}
	release chan struct{}
}

func (f *fakeCreator) CreateAppointment(_ context.Context, intent BookingIntent) (Confirmation, error) {
	f.mu.Lock()
	f.calls++
	f.lastIntent = intent
	started := f.started
	release := f.release
	confirmation := f.confirmation
	err := f.err
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}

	if release != nil {
		<-release
	}

	return confirmation, err
}

func (f *fakeCreator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func (f *fakeCreator) intent() BookingIntent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastIntent
}

type fakeTracker struct {
	mu         sync.Mutex
	scopes     [][2]string
	marked     []string
	refreshes  []bool
	rejectSlot string
	selected   string
}

func (f *fakeTracker) SelectScope(serviceID, date string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scopes = append(f.scopes, [2]string{serviceID, date})
	f.selected = ""
}

func (f *fakeTracker) Select(slot string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if slot == f.rejectSlot {
		return false
	}

	f.selected = slot

	return true
}

func (f *fakeTracker) Selected() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.selected
}

func (f *fakeTracker) clearSelection() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selected = ""
}

func (f *fakeTracker) MarkOccupied(slot string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.marked = append(f.marked, slot)
}

func (f *fakeTracker) Refresh(indicator bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refreshes = append(f.refreshes, indicator)
}

func filledForm(creator *fakeCreator, tracker *fakeTracker) *Form {
	form := NewForm(creator, tracker, time.UTC)
	form.SetName("  jane   doe ")
	form.SetPhone("+1 555 123 4567")
	form.SetService("svc-1")
	form.SetDate("2025-06-10")
	form.SetSlot("10:00")

	return form
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(form *Form)
		wantField string
	}{
		{
			name:      "name too short",
			setup:     func(form *Form) { form.SetName(" j ") },
			wantField: FieldClientName,
		},
		{
			name:      "name too long",
			setup:     func(form *Form) { form.SetName(string(make([]byte, 41))) },
			wantField: FieldClientName,
		},
		{
			name:      "phone with letters",
			setup:     func(form *Form) { form.SetPhone("555-CALL-NOW") },
			wantField: FieldClientPhone,
		},
		{
			name:      "phone with too few digits",
			setup:     func(form *Form) { form.SetPhone("1234567") },
			wantField: FieldClientPhone,
		},
		{
			name:      "phone with too many digits",
			setup:     func(form *Form) { form.SetPhone("1234567890123456") },
			wantField: FieldClientPhone,
		},
		{
			name:      "missing service",
			setup:     func(form *Form) { form.SetService("") },
			wantField: FieldServiceID,
		},
		{
			name:      "missing date",
			setup:     func(form *Form) { form.SetDate("") },
			wantField: FieldDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := filledForm(&fakeCreator{}, &fakeTracker{})
			tt.setup(form)

			fieldErrors := form.Validate()
			assert.Contains(t, fieldErrors, tt.wantField)
		})
	}
}

func TestFormValidatePassesOnFilledForm(t *testing.T) {
	form := filledForm(&fakeCreator{}, &fakeTracker{})
	assert.Empty(t, form.Validate())
}

func TestFormValidationBlocksSubmission(t *testing.T) {
	creator := &fakeCreator{}
	form := filledForm(creator, &fakeTracker{})
	form.SetPhone("")

	_, err := form.Submit(context.Background())

	var fieldErrors FieldErrors
	require.ErrorAs(t, err, &fieldErrors)
	assert.Contains(t, fieldErrors, FieldClientPhone)
	assert.Zero(t, creator.callCount())
	assert.Equal(t, StateIdle, form.State())
}

func TestFormSubmitSuccess(t *testing.T) {
	creator := &fakeCreator{
		confirmation: Confirmation{ID: "appt-1", Status: "PENDING"},
	}
	tracker := &fakeTracker{}
	form := filledForm(creator, tracker)

	confirmation, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "appt-1", confirmation.ID)
	assert.Equal(t, StateConfirmed, form.State())

	// Optimistic update, no reconciliation fetch.
	assert.Equal(t, []string{"10:00"}, tracker.marked)
	assert.Empty(t, tracker.refreshes)

	intent := creator.intent()
	assert.Equal(t, "jane doe", intent.ClientName)
	assert.Equal(t, "+1 555 123 4567", intent.ClientPhone)
	assert.True(t, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC).Equal(intent.AppointmentAt))
}

func TestFormSubmitConflictForcesRefetch(t *testing.T) {
	creator := &fakeCreator{
		err: &APIError{Status: http.StatusConflict, Message: "slot taken"},
	}
	tracker := &fakeTracker{}
	form := filledForm(creator, tracker)

	_, err := form.Submit(context.Background())

	var submitFailure *SubmitFailure
	require.ErrorAs(t, err, &submitFailure)
	assert.True(t, submitFailure.Conflict)
	assert.Equal(t, msgSlotConflict, submitFailure.Message)

	// Conflict reconciliation is an indicator-visible re-fetch.
	assert.Equal(t, []bool{true}, tracker.refreshes)
	assert.Empty(t, tracker.marked)
	assert.Equal(t, StateIdle, form.State())
}

func TestFormSubmitRateLimitedPassesMessageThrough(t *testing.T) {
	creator := &fakeCreator{
		err: &APIError{Status: http.StatusTooManyRequests, Message: "too many booking attempts, please wait a minute and try again"},
	}
	tracker := &fakeTracker{}
	form := filledForm(creator, tracker)

	_, err := form.Submit(context.Background())

	var submitFailure *SubmitFailure
	require.ErrorAs(t, err, &submitFailure)
	assert.True(t, submitFailure.RateLimited)
	assert.Equal(t, "too many booking attempts, please wait a minute and try again", submitFailure.Message)

	// No automatic retry, no reconciliation fetch.
	assert.Empty(t, tracker.refreshes)
	assert.Equal(t, StateIdle, form.State())
}

func TestFormSubmitGenericFailure(t *testing.T) {
	creator := &fakeCreator{
		err: &APIError{Status: http.StatusInternalServerError, Message: "boom"},
	}
	tracker := &fakeTracker{}
	form := filledForm(creator, tracker)

	_, err := form.Submit(context.Background())

	var submitFailure *SubmitFailure
	require.ErrorAs(t, err, &submitFailure)
	assert.False(t, submitFailure.Conflict)
	assert.False(t, submitFailure.RateLimited)
	assert.Equal(t, msgSubmitFailed, submitFailure.Message)

	// Best-effort background re-fetch.
	assert.Equal(t, []bool{false}, tracker.refreshes)
}

func TestFormDoubleSubmitGuard(t *testing.T) {
	creator := &fakeCreator{
		confirmation: Confirmation{ID: "appt-1"},
		started:      make(chan struct{}, 1),
		release:      make(chan struct{}),
	}
	tracker := &fakeTracker{}
	form := filledForm(creator, tracker)

	done := make(chan error, 1)

	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()

	<-creator.started

	// A second submit while the first is in flight never reaches the server.
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Equal(t, 1, creator.callCount())

	close(creator.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateConfirmed, form.State())
}

func TestFormSetSlotRejectsOccupied(t *testing.T) {
	tracker := &fakeTracker{rejectSlot: "10:00"}
	form := NewForm(&fakeCreator{}, tracker, time.UTC)

	assert.False(t, form.SetSlot("10:00"))
	assert.True(t, form.SetSlot("10:30"))
}

func TestFormSubmitBlockedWhenSelectionCleared(t *testing.T) {
	creator := &fakeCreator{}
	tracker := &fakeTracker{}
	form := filledForm(creator, tracker)

	// A refresh saw the chosen slot taken and dropped the selection.
	tracker.clearSelection()

	_, err := form.Submit(context.Background())

	var fieldErrors FieldErrors
	require.ErrorAs(t, err, &fieldErrors)
	assert.Equal(t, msgSlotConflict, fieldErrors[FieldSlot])
	assert.Zero(t, creator.callCount())
	assert.Equal(t, StateIdle, form.State())

	// Submitting proceeds once the guest picks a slot again.
	require.True(t, form.SetSlot("11:00"))

	_, err = form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, creator.callCount())
}

func TestFormBlocksStaleSlotAfterRefresh(t *testing.T) {
	api := newFakeOccupancyAPI()
	events := newTrackerEvents()
	tracker := newTestTracker(api, events)
	defer tracker.Close()

	creator := &fakeCreator{confirmation: Confirmation{ID: "appt-1"}}
	form := NewForm(creator, tracker, time.UTC)
	form.SetName("jane doe")
	form.SetPhone("+1 555 123 4567")
	form.SetService("svc-1")
	form.SetDate("2025-06-10")

	assert.True(t, waitEvent(t, events.loading, "loading on"))
	waitCall(t, api).respond <- fetchResult{}
	waitEvent(t, events.changed, "availability change")
	assert.False(t, waitEvent(t, events.loading, "loading off"))

	require.True(t, form.SetSlot("10:00"))

	// A background refresh finds the chosen slot taken.
	tracker.Refresh(false)
	waitCall(t, api).respond <- fetchResult{occupied: []time.Time{instant(10, 0)}}
	waitEvent(t, events.changed, "availability change")
	assert.Equal(t, "10:00", waitEvent(t, events.cleared, "selection cleared"))

	// The stale choice never reaches the server.
	_, err := form.Submit(context.Background())

	var fieldErrors FieldErrors
	require.ErrorAs(t, err, &fieldErrors)
	assert.Equal(t, msgSlotConflict, fieldErrors[FieldSlot])
	assert.Zero(t, creator.callCount())

	// Reselecting the taken slot is refused; a free one books normally.
	assert.False(t, form.SetSlot("10:00"))
	require.True(t, form.SetSlot("10:30"))

	confirmation, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "appt-1", confirmation.ID)
	assert.Equal(t, StateConfirmed, form.State())
}

func TestFormScopeChangeClearsSlot(t *testing.T) {
	tracker := &fakeTracker{}
	form := filledForm(&fakeCreator{}, tracker)

	form.SetDate("2025-06-11")

	fieldErrors := form.Validate()
	assert.Contains(t, fieldErrors, FieldSlot)

	assert.Equal(t, [2]string{"svc-1", "2025-06-11"}, tracker.scopes[len(tracker.scopes)-1])
}

func TestFormReset(t *testing.T) {
	creator := &fakeCreator{confirmation: Confirmation{ID: "appt-1"}}
	tracker := &fakeTracker{}
	form := filledForm(creator, tracker)

	_, err := form.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateConfirmed, form.State())

	form.Reset()

	assert.Equal(t, StateIdle, form.State())
	assert.Equal(t, [2]string{"", ""}, tracker.scopes[len(tracker.scopes)-1])

	fieldErrors := form.Validate()
	assert.Contains(t, fieldErrors, FieldClientName)
	assert.Contains(t, fieldErrors, FieldServiceID)
}

func TestFormStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "confirmed", StateConfirmed.String())
}
