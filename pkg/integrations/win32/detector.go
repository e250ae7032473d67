//go:build windows

package win32

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"worktrack/pkg/window"
)

const (
	displayServer          = "windows"
	defaultPointerInterval = 250 * time.Millisecond
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetCursorPos             = user32.NewProc("GetCursorPos")
)

type point struct {
	X, Y int32
}

// Detector implements window.Detector with the Win32 API
type Detector struct {
	pointerInterval time.Duration
}

// NewDetector creates a new Windows detector
func NewDetector(pointerInterval time.Duration) (*Detector, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	if pointerInterval <= 0 {
		pointerInterval = defaultPointerInterval
	}
	return &Detector{pointerInterval: pointerInterval}, nil
}

// IsAvailable checks if the Win32 window procedures resolve
func (d *Detector) IsAvailable() bool {
	return procGetForegroundWindow.Find() == nil && procGetWindowTextW.Find() == nil
}

// GetDisplayServer returns "windows"
func (d *Detector) GetDisplayServer() string {
	return displayServer
}

// ProcessRunning walks a Toolhelp snapshot looking for the executable name
func (d *Detector) ProcessRunning(name string) (bool, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return false, fmt.Errorf("failed to snapshot processes: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	err = windows.Process32First(snapshot, &entry)
	for err == nil {
		if strings.EqualFold(windows.UTF16ToString(entry.ExeFile[:]), name) {
			return true, nil
		}
		err = windows.Process32Next(snapshot, &entry)
	}

	if err != windows.ERROR_NO_MORE_FILES {
		return false, fmt.Errorf("failed to enumerate processes: %w", err)
	}
	return false, nil
}

// GetFocusedWindow returns the foreground window and its owning process
func (d *Detector) GetFocusedWindow() (*window.FocusedWindow, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil, window.ErrNoFocusedWindow
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return nil, window.ErrNoFocusedWindow
	}

	name, err := processName(pid)
	if err != nil {
		return nil, err
	}

	return &window.FocusedWindow{
		Title:         windowText(hwnd),
		PID:           pid,
		ProcessName:   name,
		DisplayServer: displayServer,
	}, nil
}

// WatchPointer samples GetCursorPos and calls onMove whenever it changes
func (d *Detector) WatchPointer(ctx context.Context, onMove func()) error {
	ticker := time.NewTicker(d.pointerInterval)
	defer ticker.Stop()

	var tracker window.PointerTracker
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			var pt point
			ret, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
			if ret == 0 {
				// Fails while the secure desktop is shown.
				continue
			}
			if tracker.Moved(pt.X, pt.Y) {
				onMove()
			}
		}
	}
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}

func windowText(hwnd uintptr) string {
	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length == 0 {
		return ""
	}

	buf := make([]uint16, length+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return strings.TrimSpace(windows.UTF16ToString(buf))
}

// processName resolves the executable file name of pid, e.g. "Resolve.exe"
func processName(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		if err == windows.ERROR_INVALID_PARAMETER {
			return "", fmt.Errorf("pid %d: %w", pid, window.ErrNoSuchProcess)
		}
		return "", fmt.Errorf("failed to open pid %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("failed to query image name of pid %d: %w", pid, err)
	}

	return filepath.Base(windows.UTF16ToString(buf[:size])), nil
}
