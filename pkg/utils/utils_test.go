package utils

import (
	"testing"
	"time"
)

func TestFormatRoundedUnit(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{seconds: 0, want: "0s"},
		{seconds: 59, want: "59s"},
		{seconds: -30, want: "30s"},
		{seconds: 60, want: "1m"},
		{seconds: 3600, want: "60m"},
		{seconds: 7201, want: "2h"},
	}

	for _, tt := range tests {
		if got := FormatRoundedUnit(tt.seconds); got != tt.want {
			t.Errorf("FormatRoundedUnit(%d) = %s, want %s", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 0, want: "0:00:00"},
		{d: 9500 * time.Millisecond, want: "0:00:10"},
		{d: 61 * time.Second, want: "0:01:01"},
		{d: 25*time.Hour + 2*time.Minute + 3*time.Second, want: "25:02:03"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("FormatClock(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}
