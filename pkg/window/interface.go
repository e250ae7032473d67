package window

import (
	"context"
	"errors"
)

var (
	// ErrNoSuchProcess is returned when a process disappears between
	// enumeration and inspection.
	ErrNoSuchProcess = errors.New("no such process")

	// ErrNoFocusedWindow is returned when no window currently has input focus.
	ErrNoFocusedWindow = errors.New("no focused window")
)

// FocusedWindow represents the window that currently holds input focus
type FocusedWindow struct {
	Title         string
	PID           uint32
	ProcessName   string
	DisplayServer string // "x11" or "windows"
}

// Sample is one observation of the target application, taken once per tick.
type Sample struct {
	ProcessPresent bool
	// WindowTitle is non-empty only when the target owns the focused window.
	WindowTitle string
}

// Focused reports whether the sample describes a running, focused target.
func (s Sample) Focused() bool {
	return s.ProcessPresent && s.WindowTitle != ""
}

// Detector is the interface that all desktop introspection implementations must satisfy
type Detector interface {
	// ProcessRunning reports whether a process with the given executable name exists
	ProcessRunning(name string) (bool, error)

	// GetFocusedWindow returns the focused window and its owning process
	GetFocusedWindow() (*FocusedWindow, error)

	// WatchPointer blocks until ctx is done, calling onMove for every pointer movement
	WatchPointer(ctx context.Context, onMove func()) error

	// IsAvailable checks if this detector can run on the current system
	IsAvailable() bool

	// GetDisplayServer returns the display server type ("x11" or "windows")
	GetDisplayServer() string

	// Close cleans up any resources used by the detector
	Close() error
}
