package client

import (
	"fmt"
	"stylebook/shared/constant"
	"time"
)

const (
	slotLayout = "15:04"

	firstSlotMinute = 9 * 60
	lastSlotMinute  = 18*60 + 30
	slotStepMinutes = 30
)

var allSlots = func() []string {
	slots := []string{}

	for minute := firstSlotMinute; minute <= lastSlotMinute; minute += slotStepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", minute/60, minute%60))
	}

	return slots
}()

// AllSlots returns every bookable wall-clock slot of a working day,
// 09:00 through 18:30 in 30-minute steps.
func AllSlots() []string {
	slots := make([]string, len(allSlots))
	copy(slots, allSlots)

	return slots
}

// ValidSlot reports whether slot belongs to the fixed slot grid.
func ValidSlot(slot string) bool {
	for _, s := range allSlots {
		if s == slot {
			return true
		}
	}

	return false
}

// SlotSet is a set of wall-clock slots for one (service, date) pair.
type SlotSet map[string]struct{}

func NewSlotSet(slots ...string) SlotSet {
	set := make(SlotSet, len(slots))
	for _, slot := range slots {
		set.Add(slot)
	}

	return set
}

func (s SlotSet) Add(slot string) {
	s[slot] = struct{}{}
}

func (s SlotSet) Has(slot string) bool {
	_, ok := s[slot]

	return ok
}

func (s SlotSet) Clone() SlotSet {
	clone := make(SlotSet, len(s))
	for slot := range s {
		clone[slot] = struct{}{}
	}

	return clone
}

// AvailableSlots returns the slot grid minus the occupied set, in day order.
func AvailableSlots(occupied SlotSet) []string {
	available := []string{}

	for _, slot := range allSlots {
		if !occupied.Has(slot) {
			available = append(available, slot)
		}
	}

	return available
}

// CombineDateSlot resolves a calendar date and a wall-clock slot in the shop
// timezone to the absolute instant the server books against. The result is
// normalized to UTC.
func CombineDateSlot(date, slot string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	if !ValidSlot(slot) {
		return time.Time{}, fmt.Errorf("slot %q is not on the booking grid", slot)
	}

	at, err := time.ParseInLocation(constant.CalendarDayFormat+" "+slotLayout, date+" "+slot, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	return at.UTC(), nil
}

// SlotFromTime maps an absolute instant back onto the wall-clock slot grid
// of the shop timezone.
func SlotFromTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	return t.In(loc).Format(slotLayout)
}
