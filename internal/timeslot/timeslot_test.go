package timeslot

import (
	"errors"
	"testing"
)

func TestSlots_CoversFullDay(t *testing.T) {
	slots := Slots()
	if len(slots) != Count {
		t.Fatalf("expected %d slots, got %d", Count, len(slots))
	}
	for i, s := range slots {
		if s.Index() != i {
			t.Errorf("slot %d: index = %d", i, s.Index())
		}
		if want := s.Hour()*2 + s.Minute()/30; want != i {
			t.Errorf("slot %d: hour/minute inconsistent (%02d:%02d)", i, s.Hour(), s.Minute())
		}
	}
	if slots[0].Label() != "00-00" {
		t.Errorf("first label = %q", slots[0].Label())
	}
	if slots[47].Label() != "23-30" {
		t.Errorf("last label = %q", slots[47].Label())
	}
}

func TestFromLabel_RoundTrip(t *testing.T) {
	for _, s := range Slots() {
		parsed, err := FromLabel(s.Label())
		if err != nil {
			t.Fatalf("FromLabel(%q): %v", s.Label(), err)
		}
		if parsed.Index() != s.Index() {
			t.Errorf("FromLabel(%q).Index() = %d, want %d", s.Label(), parsed.Index(), s.Index())
		}
	}
}

func TestFromLabel_Rejects(t *testing.T) {
	for _, label := range []string{
		"", "14:30", "1430", "14-15", "24-00", "99-30", "7-30", "07-3", "ab-cd", "14-300",
	} {
		if _, err := FromLabel(label); !errors.Is(err, ErrInvalidLabel) {
			t.Errorf("FromLabel(%q): expected ErrInvalidLabel, got %v", label, err)
		}
	}
}

func TestSlot_Display(t *testing.T) {
	s, err := FromLabel("09-30")
	if err != nil {
		t.Fatal(err)
	}
	if s.Display() != "09:30" {
		t.Errorf("Display() = %q", s.Display())
	}
	eh, em := s.End()
	if eh != 10 || em != 0 {
		t.Errorf("End() = %02d:%02d, want 10:00", eh, em)
	}
}

func TestSlot_EndOfDay(t *testing.T) {
	s, _ := FromLabel("23-30")
	eh, em := s.End()
	if eh != 24 || em != 0 {
		t.Errorf("End() = %02d:%02d, want 24:00", eh, em)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-09-09"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, date := range []string{"2025-13-40", "2025-02-30", "2025-9-9", "09-09-2025", "not-a-date", ""} {
		if _, err := ParseDate(date); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q): expected ErrInvalidDate, got %v", date, err)
		}
	}
}

func TestInfoFor(t *testing.T) {
	d, err := ParseDate("2025-09-13") // a Saturday
	if err != nil {
		t.Fatal(err)
	}
	info := InfoFor(d)
	if info.Weekday != "Saturday" || !info.IsWeekend {
		t.Errorf("InfoFor = %+v", info)
	}
	if info.Season != "autumn" {
		t.Errorf("season = %q", info.Season)
	}
}

func TestDayPart(t *testing.T) {
	cases := map[string]string{
		"06-00": "early morning",
		"10-30": "morning",
		"12-00": "noon",
		"15-00": "afternoon",
		"18-30": "evening",
		"21-00": "night",
		"02-30": "late night",
		"23-30": "late night",
	}
	for label, want := range cases {
		s, _ := FromLabel(label)
		if got := s.DayPart(); got != want {
			t.Errorf("DayPart(%s) = %q, want %q", label, got, want)
		}
	}
}
