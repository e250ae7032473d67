//go:build windows

package detector

import (
	"time"

	"worktrack/pkg/integrations/win32"
	"worktrack/pkg/window"
)

// New creates the desktop detector for this platform
func New(pointerInterval time.Duration) (window.Detector, error) {
	return win32.NewDetector(pointerInterval)
}
