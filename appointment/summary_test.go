package appointment

import (
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	appts := []Appointment{
		{Date: "2026-05-10"},
		{Date: "2026-05-01"},
		{Date: "2026-05-10"},
		{Date: "2026-05-06"},
		{Date: "2026-05-01"},
		{Date: "2026-05-10"},
	}

	got := Summarize(4, appts, now)

	if got.TotalUsers != 4 || got.TotalAppointments != 6 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.Upcoming != 4 {
		t.Fatalf("expected 4 upcoming, got %d", got.Upcoming)
	}
	want := []DayCount{
		{Date: "2026-05-10", Count: 3},
		{Date: "2026-05-01", Count: 2},
		{Date: "2026-05-06", Count: 1},
	}
	if !reflect.DeepEqual(got.PerDay, want) {
		t.Fatalf("expected first-seen order %v, got %v", want, got.PerDay)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(0, nil, now)
	if got.TotalAppointments != 0 || got.Upcoming != 0 || got.PerDay == nil || len(got.PerDay) != 0 {
		t.Fatalf("unexpected empty summary: %+v", got)
	}
}
