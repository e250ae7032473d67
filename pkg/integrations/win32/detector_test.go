//go:build windows

package win32

import (
	"os"
	"path/filepath"
	"testing"

	"worktrack/pkg/window"
)

func TestDetectorInterface(t *testing.T) {
	var _ window.Detector = (*Detector)(nil)
}

func TestProcessRunningFindsSelf(t *testing.T) {
	detector, err := NewDetector(0)
	if err != nil {
		t.Fatalf("NewDetector() error: %v", err)
	}
	defer detector.Close()

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error: %v", err)
	}

	running, err := detector.ProcessRunning(filepath.Base(exe))
	if err != nil {
		t.Fatalf("ProcessRunning() error: %v", err)
	}
	if !running {
		t.Errorf("ProcessRunning(%s) = false, want true", filepath.Base(exe))
	}

	running, err = detector.ProcessRunning("nonexistent_process_xyz.exe")
	if err != nil {
		t.Fatalf("ProcessRunning() error: %v", err)
	}
	if running {
		t.Error("ProcessRunning(nonexistent) = true, want false")
	}
}

func TestProcessNameOfSelf(t *testing.T) {
	name, err := processName(uint32(os.Getpid()))
	if err != nil {
		t.Fatalf("processName() error: %v", err)
	}

	exe, _ := os.Executable()
	if name != filepath.Base(exe) {
		t.Errorf("processName() = %s, want %s", name, filepath.Base(exe))
	}
}
