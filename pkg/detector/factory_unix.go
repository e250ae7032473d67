//go:build !windows

package detector

import (
	"fmt"
	"time"

	"worktrack/pkg/integrations/wayland"
	"worktrack/pkg/integrations/x11"
	"worktrack/pkg/window"
)

// New creates the desktop detector for this platform
func New(pointerInterval time.Duration) (window.Detector, error) {
	switch server := DetectDisplayServer(); server {
	case "x11", "xwayland":
		det, err := x11.NewDetector(pointerInterval)
		if err != nil {
			return nil, err
		}
		if !det.IsAvailable() {
			det.Close()
			return nil, fmt.Errorf("x11 detector unavailable: /proc is not readable")
		}
		return det, nil
	case "wayland":
		det := wayland.NewDetector(pointerInterval)
		if !det.IsAvailable() {
			return nil, fmt.Errorf("wayland compositor %q is not supported (sway and hyprland are)", det.Compositor())
		}
		return det, nil
	default:
		return nil, fmt.Errorf("unsupported display server: %s", server)
	}
}
