package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" (seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On returns the instant at which this time of day occurs on date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
}

// Weekdays is a set of working weekdays. Index 0 is Monday and 6 is Sunday,
// which is also the stored encoding ("0,1,2,3,4").
type Weekdays uint8

// Monday-first index of a Go weekday.
func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func NewWeekdays(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << weekdayIndex(d)
	}
	return w
}

// ParseWeekdays parses the comma separated Monday-first encoding.
func ParseWeekdays(s string) (Weekdays, error) {
	var w Weekdays
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidWeekdays, s)
		}
		w |= 1 << n
	}
	return w, nil
}

func (w Weekdays) Contains(d time.Weekday) bool {
	return w&(1<<weekdayIndex(d)) != 0
}

func (w Weekdays) Indexes() []int {
	var out []int
	for i := 0; i < 7; i++ {
		if w&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func (w Weekdays) String() string {
	idx := w.Indexes()
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
