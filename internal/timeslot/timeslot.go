// Package timeslot enumerates the 48 half-hour blocks of a calendar day.
// Every other component indexes its per-slot data against this enumeration,
// so slot labels and array positions can never drift apart.
package timeslot

import (
	"errors"
	"fmt"
)

// Count is the number of half-hour slots in a day.
const Count = 48

// ErrInvalidLabel is returned for anything that is not a canonical
// "HH-MM" slot label with HH in 00..23 and MM either 00 or 30.
var ErrInvalidLabel = errors.New("invalid time block label")

// Slot is one fixed 30-minute interval, identified by its index 0..47.
type Slot struct {
	index int
}

// FromIndex returns the slot at index i.
func FromIndex(i int) (Slot, error) {
	if i < 0 || i >= Count {
		return Slot{}, fmt.Errorf("slot index %d out of range [0,%d)", i, Count)
	}
	return Slot{index: i}, nil
}

// FromLabel parses a canonical "HH-MM" label.
func FromLabel(label string) (Slot, error) {
	if len(label) != 5 || label[2] != '-' {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	hour, ok1 := twoDigits(label[0], label[1])
	minute, ok2 := twoDigits(label[3], label[4])
	if !ok1 || !ok2 || hour > 23 || (minute != 0 && minute != 30) {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return Slot{index: hour*2 + minute/30}, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// Slots returns all 48 slots in ascending index order.
func Slots() []Slot {
	out := make([]Slot, Count)
	for i := range out {
		out[i] = Slot{index: i}
	}
	return out
}

// Index is the slot's position 0..47: hour*2, plus one for half-past.
func (s Slot) Index() int { return s.index }

// Hour is the starting hour, 0..23.
func (s Slot) Hour() int { return s.index / 2 }

// Minute is the starting minute, 0 or 30.
func (s Slot) Minute() int { return (s.index % 2) * 30 }

// Label is the canonical "HH-MM" form used as an external key.
func (s Slot) Label() string {
	return fmt.Sprintf("%02d-%02d", s.Hour(), s.Minute())
}

// Display is the "HH:MM" form used inside rendered prompts.
func (s Slot) Display() string {
	return fmt.Sprintf("%02d:%02d", s.Hour(), s.Minute())
}

// End returns the exclusive end of the interval. 23-30 ends at 24:00.
func (s Slot) End() (hour, minute int) {
	hour, minute = s.Hour(), s.Minute()+30
	if minute == 60 {
		hour, minute = hour+1, 0
	}
	return hour, minute
}

func (s Slot) String() string { return s.Label() }

// DayPart names the broad part of day a slot falls in, for prompt context.
func (s Slot) DayPart() string {
	switch h := s.Hour(); {
	case h >= 5 && h < 9:
		return "early morning"
	case h >= 9 && h < 12:
		return "morning"
	case h >= 12 && h < 14:
		return "noon"
	case h >= 14 && h < 17:
		return "afternoon"
	case h >= 17 && h < 20:
		return "evening"
	case h >= 20 && h < 23:
		return "night"
	default:
		return "late night"
	}
}
