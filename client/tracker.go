package client

import (
	"context"
	"sync"
	"time"
)

const (
	defaultPollInterval = 15 * time.Second
	defaultMinLoading   = 700 * time.Millisecond
)

// OccupancyLister is the one API call the tracker needs. *API satisfies it.
type OccupancyLister interface {
	ListOccupied(ctx context.Context, serviceID, date string) ([]time.Time, error)
}

// Listener receives tracker state changes. Callbacks run on the fetch
// goroutine and must not call back into the Tracker.
type Listener interface {
	// AvailabilityChanged delivers the new occupied set after a fetch is
	// applied or an optimistic local update.
	AvailabilityChanged(occupied SlotSet)
	// SelectionCleared fires when the currently selected slot is dropped,
	// either by a scope change or because a fresh fetch showed it taken.
	SelectionCleared(slot string)
	// LoadingChanged toggles the loading indicator for indicator-visible
	// fetches. Background polls never toggle it.
	LoadingChanged(visible bool)
	// AvailabilityError fires for failed indicator-visible fetches only.
	// Background poll failures are swallowed.
	AvailabilityError(err error)
}

// NopListener discards every notification.
type NopListener struct{}

func (NopListener) AvailabilityChanged(SlotSet) {}
func (NopListener) SelectionCleared(string)     {}
func (NopListener) LoadingChanged(bool)         {}
func (NopListener) AvailabilityError(error)     {}

type TrackerOption func(*Tracker)

// WithPollInterval overrides the 15s background poll cadence.
func WithPollInterval(interval time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.pollInterval = interval
	}
}

// WithMinLoading overrides the minimum time the loading indicator stays
// visible for an indicator-visible fetch.
func WithMinLoading(floor time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.minLoading = floor
	}
}

// Tracker owns the occupied-slot set for the currently selected
// (service, date) pair. It refreshes the set on demand and on a background
// poll, and guards every asynchronous result application with a sequence
// counter so a slow stale response can never clobber a fresh one
// (last-fetch-started-wins).
//
// The set is a hint for the booking form, never a correctness mechanism;
// the server re-checks uniqueness on every create.
type Tracker struct {
	api      OccupancyLister
	loc      *time.Location
	listener Listener

	pollInterval time.Duration
	minLoading   time.Duration

	mu        sync.Mutex
	serviceID string
	date      string
	occupied  SlotSet
	selected  string
	seq       uint64
	loadSeq   uint64
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewTracker(api OccupancyLister, loc *time.Location, listener Listener, opts ...TrackerOption) *Tracker {
	if loc == nil {
		loc = time.UTC
	}

	if listener == nil {
		listener = NopListener{}
	}

	tracker := &Tracker{
		api:          api,
		loc:          loc,
		listener:     listener,
		pollInterval: defaultPollInterval,
		minLoading:   defaultMinLoading,
	}

	for _, opt := range opts {
		opt(tracker)
	}

	return tracker
}

// SelectScope switches the tracker to a new (service, date) pair. The old
// occupied set, the selected slot and everything in flight for the old
// scope are discarded. When both inputs are non-empty a new tracking epoch
// starts with an immediate indicator-visible fetch plus the background
// poll loop.
func (t *Tracker) SelectScope(serviceID, date string) {
	t.mu.Lock()

	if t.cancel != nil {
		t.cancel()
		t.ctx, t.cancel = nil, nil
	}

	t.occupied = nil
	cleared := t.selected
	t.selected = ""
	t.serviceID = serviceID
	t.date = date

	var ctx context.Context

	if serviceID != "" && date != "" {
		ctx, t.cancel = context.WithCancel(context.Background())
		t.ctx = ctx
	}

	t.mu.Unlock()

	if cleared != "" {
		t.listener.SelectionCleared(cleared)
	}

	if ctx != nil {
		t.startFetch(true)

		go t.poll(ctx)
	}
}

// Refresh re-fetches the current scope. Indicator-visible refreshes hold
// the loading indicator for at least the minimum floor; background
// refreshes never touch it.
func (t *Tracker) Refresh(indicator bool) {
	t.startFetch(indicator)
}

// MarkOccupied applies an optimistic local update after a successful
// submission: the booked slot shows as taken immediately, without waiting
// for the next poll.
func (t *Tracker) MarkOccupied(slot string) {
	t.mu.Lock()

	if t.occupied == nil {
		t.occupied = NewSlotSet()
	}

	t.occupied.Add(slot)
	changed := t.occupied.Clone()

	t.mu.Unlock()

	t.listener.AvailabilityChanged(changed)
}

// Select records the user's slot choice. It refuses a slot already known
// to be occupied.
func (t *Tracker) Select(slot string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.occupied.Has(slot) {
		return false
	}

	t.selected = slot

	return true
}

// Selected returns the currently selected slot, or "".
func (t *Tracker) Selected() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.selected
}

// Occupied returns a copy of the current occupied set.
func (t *Tracker) Occupied() SlotSet {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.occupied.Clone()
}

// Available returns the slot grid minus the occupied set.
func (t *Tracker) Available() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return AvailableSlots(t.occupied)
}

// Close cancels everything in flight and stops the poll loop.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.ctx, t.cancel = nil, nil
	}

	t.serviceID, t.date = "", ""
	t.occupied = nil
	t.selected = ""
}

func (t *Tracker) startFetch(indicator bool) {
	t.mu.Lock()

	ctx := t.ctx
	if ctx == nil || ctx.Err() != nil {
		t.mu.Unlock()

		return
	}

	t.seq++
	seq := t.seq
	serviceID, date := t.serviceID, t.date

	var loadSeq uint64

	if indicator {
		t.loadSeq++
		loadSeq = t.loadSeq
	}

	t.mu.Unlock()

	if indicator {
		t.listener.LoadingChanged(true)
	}

	go t.fetch(ctx, seq, loadSeq, serviceID, date, indicator)
}

func (t *Tracker) fetch(ctx context.Context, seq, loadSeq uint64, serviceID, date string, indicator bool) {
	started := time.Now()

	occupiedAt, err := t.api.ListOccupied(ctx, serviceID, date)

	if indicator {
		if wait := t.minLoading - time.Since(started); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
			}
		}
	}

	t.mu.Lock()

	stale := ctx.Err() != nil || seq != t.seq

	var (
		changed SlotSet
		cleared string
	)

	if !stale && err == nil {
		set := NewSlotSet()
		for _, at := range occupiedAt {
			set.Add(SlotFromTime(at, t.loc))
		}

		t.occupied = set

		if t.selected != "" && set.Has(t.selected) {
			cleared = t.selected
			t.selected = ""
		}

		changed = set.Clone()
	}

	loadingOff := indicator && loadSeq == t.loadSeq

	t.mu.Unlock()

	if changed != nil {
		t.listener.AvailabilityChanged(changed)
	}

	if cleared != "" {
		t.listener.SelectionCleared(cleared)
	}

	if !stale && err != nil && indicator {
		t.listener.AvailabilityError(err)
	}

	if loadingOff {
		t.listener.LoadingChanged(false)
	}
}

func (t *Tracker) poll(ctx context.Context) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.startFetch(false)
		}
	}
}
