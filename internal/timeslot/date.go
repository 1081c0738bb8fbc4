package timeslot

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned for dates that are not real calendar
// dates in strict YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate validates a strict YYYY-MM-DD calendar date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	// time.Parse normalizes overflows like 2025-13-40; reject those.
	if t.Format("2006-01-02") != date {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// DateInfo carries the calendar context a rendered prompt mentions.
type DateInfo struct {
	Weekday   string
	IsWeekend bool
	Season    string
}

// InfoFor returns weekday and season context for a parsed date.
func InfoFor(t time.Time) DateInfo {
	wd := t.Weekday()
	return DateInfo{
		Weekday:   wd.String(),
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
		Season:    season(int(t.Month())),
	}
}

func season(month int) string {
	switch {
	case month >= 3 && month <= 5:
		return "spring"
	case month >= 6 && month <= 8:
		return "summer"
	case month >= 9 && month <= 11:
		return "autumn"
	default:
		return "winter"
	}
}
