package timeutil

import (
	"regexp"
	"testing"
	"time"
)

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "reference instant",
			input:    time.Date(2024, 12, 10, 10, 40, 49, 553000000, time.Local),
			expected: "20241210104049",
		},
		{
			name:     "single digit components are zero padded",
			input:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
			expected: "20250102030405",
		},
		{
			name:     "midnight",
			input:    time.Date(2025, 11, 20, 0, 0, 0, 0, time.Local),
			expected: "20251120000000",
		},
		{
			name:     "end of year",
			input:    time.Date(2025, 12, 31, 23, 59, 59, 999999999, time.Local),
			expected: "20251231235959",
		},
		{
			name:     "small year is zero padded",
			input:    time.Date(987, 6, 7, 8, 9, 10, 0, time.UTC),
			expected: "09870607080910",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Timestamp(tt.input)

			if result != tt.expected {
				t.Errorf("Timestamp() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestTimestamp_UsesLocationOfInput(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	instant := time.Date(2024, 12, 10, 9, 40, 49, 0, time.UTC)

	if got := Timestamp(instant); got != "20241210094049" {
		t.Errorf("Timestamp(UTC) = %q", got)
	}
	if got := Timestamp(instant.In(warsaw)); got != "20241210104049" {
		t.Errorf("Timestamp(CET) = %q", got)
	}
}

func TestDatestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "reference instant",
			input:    time.Date(2024, 12, 10, 10, 40, 49, 553000000, time.Local),
			expected: "20241210",
		},
		{
			name:     "zero padded month and day",
			input:    time.Date(2025, 3, 7, 23, 0, 0, 0, time.Local),
			expected: "20250307",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Datestamp(tt.input)

			if result != tt.expected {
				t.Errorf("Datestamp() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestNow_FormatsToFixedWidth(t *testing.T) {
	now := Now()

	if ok, _ := regexp.MatchString(`^\d{14}$`, Timestamp(now)); !ok {
		t.Errorf("Timestamp(Now()) is not 14 digits: %q", Timestamp(now))
	}
	if ok, _ := regexp.MatchString(`^\d{8}$`, Datestamp(now)); !ok {
		t.Errorf("Datestamp(Now()) is not 8 digits: %q", Datestamp(now))
	}
	if now.Location() != time.Local {
		t.Errorf("Now() returned non-local timezone: %v", now.Location())
	}
}

func TestTimestamp_Deterministic(t *testing.T) {
	instant := time.Date(2024, 12, 10, 10, 40, 49, 0, time.Local)

	if Timestamp(instant) != Timestamp(instant) {
		t.Error("Timestamp() is not deterministic")
	}
	if Datestamp(instant) != Timestamp(instant)[:8] {
		t.Error("Datestamp() should equal the date prefix of Timestamp()")
	}
}
