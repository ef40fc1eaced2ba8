package shift_test

import (
	"testing"
	"time"

	"github.com/hstiawan/visit-tracker/internal/shift"
)

func TestParseUTCFields(t *testing.T) {
	d, err := shift.Parse("2025-06-28T09:00:49Z", time.UTC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if d.Date != "2025-06-28" {
		t.Errorf("Date = %q, want %q", d.Date, "2025-06-28")
	}
	if d.TimeOnly != "09:00:49" {
		t.Errorf("TimeOnly = %q, want %q", d.TimeOnly, "09:00:49")
	}
	if d.Timezone != "UTC+0" {
		t.Errorf("Timezone = %q, want %q", d.Timezone, "UTC+0")
	}
	// 2025-06-28 is a Saturday.
	if d.DateWithDay != "Sat, 28 Jun 2025" {
		t.Errorf("DateWithDay = %q, want %q", d.DateWithDay, "Sat, 28 Jun 2025")
	}
}

func TestParseViewerOffsetLabel(t *testing.T) {
	tests := []struct {
		name   string
		viewer *time.Location
		want   string
	}{
		{"behind UTC", time.FixedZone("UTC-5", -5*3600), "UTC-5"},
		{"ahead of UTC", time.FixedZone("UTC+2", 2*3600), "UTC+2"},
		{"half-hour zone", time.FixedZone("UTC+5.5", 5*3600+1800), "UTC+5.5"},
	}
	for _, tt := range tests {
		d, err := shift.Parse("2025-01-15T09:00:00Z", tt.viewer)
		if err != nil {
			t.Fatalf("%s: Parse: %v", tt.name, err)
		}
		if d.Timezone != tt.want {
			t.Errorf("%s: Timezone = %q, want %q", tt.name, d.Timezone, tt.want)
		}
	}
}

// Feeding Parse's own output back through the parser must reconstruct
// the same calendar date and clock time.
func TestParseRoundTrip(t *testing.T) {
	d, err := shift.Parse("2025-01-15T07:30:05Z", time.UTC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	back, err := time.Parse("2006-01-02 15:04:05", d.Date+" "+d.TimeOnly)
	if err != nil {
		t.Fatalf("re-parsing display fields: %v", err)
	}
	want := time.Date(2025, 1, 15, 7, 30, 5, 0, time.UTC)
	if !back.Equal(want) {
		t.Errorf("round trip = %v, want %v", back, want)
	}

	backDay, err := time.Parse("Mon, 02 Jan 2006", d.DateWithDay)
	if err != nil {
		t.Fatalf("re-parsing DateWithDay: %v", err)
	}
	if backDay.Format("2006-01-02") != d.Date {
		t.Errorf("DateWithDay %q does not match Date %q", d.DateWithDay, d.Date)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := shift.Parse("yesterday-ish", time.UTC); err == nil {
		t.Error("expected error for unparseable shift time")
	}
}
