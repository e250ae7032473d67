package detector

import (
	"os"
	"runtime"
)

// DetectDisplayServer reports which desktop session the process runs in
func DetectDisplayServer() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}

	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "x11" || (x11Display != "" && waylandDisplay == "") {
		return "x11"
	}

	// Wayland sessions expose XWayland through DISPLAY; the native X11 client
	// still sees XWayland windows.
	if x11Display != "" {
		return "xwayland"
	}

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	return "unknown"
}
