package probe

import (
	"errors"
	"log/slog"
	"strings"

	"worktrack/pkg/window"
)

// Probe samples whether the target application is running and focused
type Probe struct {
	detector window.Detector
	target   string
	logger   *slog.Logger
}

// New creates a probe for the process named target
func New(detector window.Detector, target string, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{
		detector: detector,
		target:   target,
		logger:   logger,
	}
}

// Target returns the configured process name
func (p *Probe) Target() string {
	return p.target
}

// Sample queries the desktop once. Detector failures never propagate: a
// failed enumeration reads as "not running" and a failed focus query reads as
// "not focused".
func (p *Probe) Sample() window.Sample {
	running, err := p.detector.ProcessRunning(p.target)
	if err != nil {
		p.logger.Debug("process enumeration failed", "target", p.target, "error", err)
		return window.Sample{}
	}
	if !running {
		return window.Sample{}
	}

	sample := window.Sample{ProcessPresent: true}

	fw, err := p.detector.GetFocusedWindow()
	if err != nil {
		// A vanished process or an empty desktop is routine.
		if !errors.Is(err, window.ErrNoSuchProcess) && !errors.Is(err, window.ErrNoFocusedWindow) {
			p.logger.Debug("focused window query failed", "error", err)
		}
		return sample
	}

	if fw == nil || !p.owns(fw) {
		return sample
	}

	sample.WindowTitle = fw.Title
	return sample
}

// owns reports whether the focused window belongs to the target. Executable
// names compare case-insensitively because Windows file names do.
func (p *Probe) owns(fw *window.FocusedWindow) bool {
	return fw.ProcessName != "" && strings.EqualFold(fw.ProcessName, p.target)
}
