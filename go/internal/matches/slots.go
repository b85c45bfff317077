package matches

import (
	"fmt"
	"regexp"
	"time"
)

// SlotMode selects how match times are constrained
type SlotMode string

const (
	// SlotModeFixed only admits times from the configured slot list
	SlotModeFixed SlotMode = "fixed"
	// SlotModeFree admits any zero-padded HH:MM time
	SlotModeFree SlotMode = "free"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// SlotPolicy decides which time strings a match may use
type SlotPolicy struct {
	mode  SlotMode
	slots []string
	index map[string]struct{}
}

// DefaultTimeSlots returns the half-hour marks from 07:00 to 22:30
func DefaultTimeSlots() []string {
	slots, err := HalfHourSlots("07:00", "22:30")
	if err != nil {
		panic(err)
	}
	return slots
}

// HalfHourSlots lists every half-hour mark between first and last, inclusive
func HalfHourSlots(first, last string) ([]string, error) {
	start, err := parseClock(first)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(last)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("last slot %s is before first slot %s", last, first)
	}

	var slots []string
	for t := start; t <= end; t += 30 * time.Minute {
		slots = append(slots, fmt.Sprintf("%02d:%02d", int(t.Hours()), int(t.Minutes())%60))
	}
	return slots, nil
}

// NewFixedSlots builds a fixed policy. Slots must be valid HH:MM and strictly ascending.
func NewFixedSlots(slots []string) (*SlotPolicy, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("at least one time slot is required")
	}
	index := make(map[string]struct{}, len(slots))
	for i, s := range slots {
		if !clockPattern.MatchString(s) {
			return nil, fmt.Errorf("invalid time slot %q", s)
		}
		if i > 0 && s <= slots[i-1] {
			return nil, fmt.Errorf("time slots must be ascending: %s after %s", s, slots[i-1])
		}
		index[s] = struct{}{}
	}
	return &SlotPolicy{
		mode:  SlotModeFixed,
		slots: append([]string(nil), slots...),
		index: index,
	}, nil
}

// FreeSlots returns a policy that accepts any HH:MM time
func FreeSlots() *SlotPolicy {
	return &SlotPolicy{mode: SlotModeFree}
}

func (p *SlotPolicy) Mode() SlotMode { return p.mode }

// Slots returns the allowed slots, or nil in free mode
func (p *SlotPolicy) Slots() []string {
	if p.mode == SlotModeFree {
		return nil
	}
	return append([]string(nil), p.slots...)
}

// Allows reports whether t can be booked
func (p *SlotPolicy) Allows(t string) bool {
	if p.mode == SlotModeFree {
		return clockPattern.MatchString(t)
	}
	_, ok := p.index[t]
	return ok
}

func parseClock(s string) (time.Duration, error) {
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
