package shift_test

import (
	"testing"
	"time"

	"github.com/hstiawan/visit-tracker/internal/shift"
)

func TestElapsed(t *testing.T) {
	now := time.Date(2025, 6, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  string
	}{
		{"zero", now, "00:00:00"},
		{"one hour one minute one second", now.Add(-3661 * time.Second), "01:01:01"},
		{"sub-second floor", now.Add(-1500 * time.Millisecond), "00:00:01"},
		{"future start clamps", now.Add(10 * time.Minute), "00:00:00"},
		{"past a day stays in hours", now.Add(-26*time.Hour - 5*time.Second), "26:00:05"},
	}
	for _, tt := range tests {
		got := shift.Elapsed(tt.start, now)
		if got != tt.want {
			t.Errorf("%s: Elapsed = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	now := time.Date(2025, 6, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		start string
		want  string
	}{
		{"", "00:00:00"},
		{"not a timestamp", "00:00:00"},
		{"2025-06-28T10:58:59Z", "01:01:01"},
		{"2025-06-28T11:59:30.250Z", "00:00:29"},
	}
	for _, tt := range tests {
		got := shift.FormatDuration(tt.start, now)
		if got != tt.want {
			t.Errorf("FormatDuration(%q) = %q, want %q", tt.start, got, tt.want)
		}
	}
}
