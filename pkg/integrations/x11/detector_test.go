package x11

import (
	"testing"

	"worktrack/pkg/window"
)

func TestDetectorInterface(t *testing.T) {
	var _ window.Detector = (*Detector)(nil)
}

func TestNewDetectorWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")

	detector, err := NewDetector(0)
	if err == nil {
		detector.Close()
		t.Fatal("NewDetector() succeeded without DISPLAY")
	}
	t.Logf("NewDetector() error (expected): %v", err)
}

func TestGetDisplayServer(t *testing.T) {
	detector := &Detector{}
	if got := detector.GetDisplayServer(); got != "x11" {
		t.Errorf("GetDisplayServer() = %s, want x11", got)
	}
}

func TestCloseWithoutConnection(t *testing.T) {
	detector := &Detector{}
	if err := detector.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
	if detector.IsAvailable() {
		t.Error("IsAvailable() = true for a detector without connection")
	}
}

func TestDecodeUint32(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		want   uint32
		wantOK bool
	}{
		{name: "Window id", input: []byte{0x0a, 0x00, 0x40, 0x03}, want: 0x0340000a, wantOK: true},
		{name: "Pid", input: []byte{0x92, 0x10, 0x00, 0x00}, want: 4242, wantOK: true},
		{name: "Trailing bytes ignored", input: []byte{0x01, 0x00, 0x00, 0x00, 0xff}, want: 1, wantOK: true},
		{name: "Too short", input: []byte{0x01, 0x00}, want: 0, wantOK: false},
		{name: "Empty", input: nil, want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeUint32(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("decodeUint32(%v) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTrimProperty(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{name: "Plain", input: []byte("DaVinci Resolve - Reel"), expected: "DaVinci Resolve - Reel"},
		{name: "NUL padded", input: []byte("Edit - Reel\x00\x00"), expected: "Edit - Reel"},
		{name: "Whitespace", input: []byte("  Timeline \x00"), expected: "Timeline"},
		{name: "Empty", input: []byte{}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimProperty(tt.input); got != tt.expected {
				t.Errorf("trimProperty(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
