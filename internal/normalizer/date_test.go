package normalizer

import (
	"testing"
	"time"
)

func TestResolveDate_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		y     int
		m     time.Month
		d     int
		hh    int
		mm    int
		ss    int
	}{
		{"compact timestamp", "20240315083045", 2024, time.March, 15, 8, 30, 45},
		{"compact date", "20240229", 2024, time.February, 29, 0, 0, 0},
		{"day first slash", "15/03/2024", 2024, time.March, 15, 0, 0, 0},
		{"day first slash with time", "15/03/2024 08:30", 2024, time.March, 15, 0, 0, 0},
		{"single digit slash", "5/3/2024", 2024, time.March, 5, 0, 0, 0},
		{"iso", "2024-03-15", 2024, time.March, 15, 0, 0, 0},
		{"iso with time", "2024-03-15 10:20:00", 2024, time.March, 15, 0, 0, 0},
		{"iso with T", "2024-03-15T10:20:00", 2024, time.March, 15, 0, 0, 0},
		{"month first fallback", "12/25/2024", 2024, time.December, 25, 0, 0, 0},
		{"day first dash", "15-03-2024", 2024, time.March, 15, 0, 0, 0},
		{"surrounding spaces", "  20240101  ", 2024, time.January, 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.input)
			if !ok {
				t.Fatalf("ResolveDate(%q) failed", tt.input)
			}

			if got.Year() != tt.y || got.Month() != tt.m || got.Day() != tt.d {
				t.Errorf("ResolveDate(%q) = %v, want %d-%02d-%02d", tt.input, got, tt.y, tt.m, tt.d)
			}

			if got.Hour() != tt.hh || got.Minute() != tt.mm || got.Second() != tt.ss {
				t.Errorf("ResolveDate(%q) time = %02d:%02d:%02d, want %02d:%02d:%02d",
					tt.input, got.Hour(), got.Minute(), got.Second(), tt.hh, tt.mm, tt.ss)
			}

			if got.Location() != time.Local {
				t.Errorf("ResolveDate(%q) location = %v, want Local", tt.input, got.Location())
			}
		})
	}
}

func TestResolveDate_AmbiguousSlashIsDayFirst(t *testing.T) {
	got, ok := ResolveDate("03/04/2024")
	if !ok {
		t.Fatal("ResolveDate failed")
	}

	if got.Day() != 3 || got.Month() != time.April {
		t.Errorf("ResolveDate(03/04/2024) = %v, want 3 April", got)
	}
}

func TestResolveDate_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"31/02/2024",
		"20240231",
		"20230229",
		"20240315250000",
		"2024-13-01",
		"31-04-2024",
		"13/13/2024",
		"hôm qua",
		"2024/03/15",
		"123",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			if got, ok := ResolveDate(in); ok {
				t.Errorf("ResolveDate(%q) = %v, want failure", in, got)
			}
		})
	}
}
