package reconciliation

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
)

// PairDurations sums, in minutes, the time between each exitType event and
// the first unconsumed entryType event strictly after it. An entry is used at
// most once and exits without a later entry contribute nothing.
func PairDurations(events []clock.Event, exitType, entryType clock.EventType) float64 {
	var exits, entries []time.Time
	for _, e := range SortEvents(events) {
		switch e.Type {
		case exitType:
			exits = append(exits, e.Timestamp)
		case entryType:
			entries = append(entries, e.Timestamp)
		}
	}

	consumed := make([]bool, len(entries))
	var total time.Duration
	for _, out := range exits {
		for i, in := range entries {
			if consumed[i] || !in.After(out) {
				continue
			}
			total += in.Sub(out)
			consumed[i] = true
			break
		}
	}
	return total.Minutes()
}

// WorkedMinutes is the clock-in to clock-out span minus programmed breaks,
// lunch and personal breaks.
func WorkedMinutes(events []clock.Event) float64 {
	span := PairDurations(events, clock.EventClockIn, clock.EventClockOut)
	breaks := PairDurations(events, clock.EventBreakOut, clock.EventBreakIn)
	lunch := PairDurations(events, clock.EventLunchOut, clock.EventLunchIn)
	personal := PairDurations(events, clock.EventPersonalBreakOut, clock.EventPersonalBreakIn)
	return span - breaks - lunch - personal
}

// SortEvents returns a copy of events ordered by timestamp.
func SortEvents(events []clock.Event) []clock.Event {
	sorted := make([]clock.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// CountType counts events of type t.
func CountType(events []clock.Event, t clock.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func firstOfType(events []clock.Event, t clock.EventType) *time.Time {
	for _, e := range SortEvents(events) {
		if e.Type == t {
			ts := e.Timestamp
			return &ts
		}
	}
	return nil
}
