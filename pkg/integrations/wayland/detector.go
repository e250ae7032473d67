package wayland

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"worktrack/pkg/integrations/process"
	"worktrack/pkg/window"
)

const defaultPointerInterval = 250 * time.Millisecond

// Detector implements window.Detector for wlroots-style compositors that
// expose focus and PIDs over IPC: Sway (swaymsg) and Hyprland (hyprctl)
type Detector struct {
	compositor      string
	hasSwaymsg      bool
	hasHyprctl      bool
	procs           *process.Table
	pointerInterval time.Duration
}

// NewDetector creates a new Wayland detector
func NewDetector(pointerInterval time.Duration) *Detector {
	if pointerInterval <= 0 {
		pointerInterval = defaultPointerInterval
	}
	d := &Detector{
		procs:           process.NewTable(),
		pointerInterval: pointerInterval,
	}
	d.hasSwaymsg = commandExists("swaymsg")
	d.hasHyprctl = commandExists("hyprctl")
	d.compositor = detectCompositor(os.Getenv)
	return d
}

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// detectCompositor identifies the compositor from the IPC sockets it
// advertises, falling back to a process scan
func detectCompositor(getenv func(string) string) string {
	if getenv("SWAYSOCK") != "" {
		return "sway"
	}
	if getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return "hyprland"
	}

	for _, name := range []string{"sway", "Hyprland"} {
		if err := exec.Command("pgrep", "-x", name).Run(); err == nil {
			return strings.ToLower(name)
		}
	}
	return "unknown"
}

// Compositor returns the detected compositor name
func (d *Detector) Compositor() string {
	return d.compositor
}

// IsAvailable reports whether the compositor's IPC tool and /proc are usable
func (d *Detector) IsAvailable() bool {
	if !d.procs.IsAvailable() {
		return false
	}
	switch d.compositor {
	case "sway":
		return d.hasSwaymsg
	case "hyprland":
		return d.hasHyprctl
	default:
		return false
	}
}

// GetDisplayServer returns "wayland"
func (d *Detector) GetDisplayServer() string {
	return "wayland"
}

// ProcessRunning reports whether a process with the given executable name exists
func (d *Detector) ProcessRunning(name string) (bool, error) {
	return d.procs.Running(name)
}

// GetFocusedWindow returns the focused window and its owning process
func (d *Detector) GetFocusedWindow() (*window.FocusedWindow, error) {
	var (
		fw  *window.FocusedWindow
		err error
	)
	switch d.compositor {
	case "sway":
		fw, err = d.focusedFrom(parseSwayTree, "swaymsg", "-t", "get_tree")
	case "hyprland":
		fw, err = d.focusedFrom(parseHyprlandWindow, "hyprctl", "activewindow", "-j")
	default:
		return nil, fmt.Errorf("unsupported wayland compositor: %s", d.compositor)
	}
	if err != nil {
		return nil, err
	}

	name, err := d.procs.Name(int(fw.PID))
	if err != nil {
		return nil, err
	}
	fw.ProcessName = name
	fw.DisplayServer = "wayland"
	return fw, nil
}

func (d *Detector) focusedFrom(parse func([]byte) (*window.FocusedWindow, error), name string, args ...string) (*window.FocusedWindow, error) {
	output, err := exec.Command(name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return parse(output)
}

type swayNode struct {
	Name          *string    `json:"name"`
	Focused       bool       `json:"focused"`
	PID           uint32     `json:"pid"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

// parseSwayTree finds the focused view in swaymsg get_tree output
func parseSwayTree(data []byte) (*window.FocusedWindow, error) {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}

	var find func(n *swayNode) *swayNode
	find = func(n *swayNode) *swayNode {
		if n.Focused && n.PID != 0 {
			return n
		}
		for _, children := range [][]swayNode{n.Nodes, n.FloatingNodes} {
			for i := range children {
				if found := find(&children[i]); found != nil {
					return found
				}
			}
		}
		return nil
	}

	node := find(&root)
	if node == nil {
		return nil, window.ErrNoFocusedWindow
	}
	fw := &window.FocusedWindow{PID: node.PID}
	if node.Name != nil {
		fw.Title = *node.Name
	}
	return fw, nil
}

type hyprlandWindow struct {
	Title string `json:"title"`
	PID   int64  `json:"pid"`
}

// parseHyprlandWindow parses hyprctl activewindow -j output
func parseHyprlandWindow(data []byte) (*window.FocusedWindow, error) {
	var w hyprlandWindow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse hyprland window: %w", err)
	}
	if w.PID <= 0 {
		return nil, window.ErrNoFocusedWindow
	}
	return &window.FocusedWindow{Title: w.Title, PID: uint32(w.PID)}, nil
}

// parseCursorPos parses hyprctl cursorpos output such as "1280, 720"
func parseCursorPos(output string) (int32, int32, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(output), ",")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected cursor position: %q", output)
	}
	x, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cursor x: %w", err)
	}
	y, err := strconv.ParseInt(strings.TrimSpace(ys), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cursor y: %w", err)
	}
	return int32(x), int32(y), nil
}

// WatchPointer reports input activity until ctx is done. Hyprland exposes
// the cursor position, which is polled. Sway does not; focus, workspace and
// binding events from its IPC stream stand in for pointer movement.
func (d *Detector) WatchPointer(ctx context.Context, onMove func()) error {
	switch d.compositor {
	case "hyprland":
		return d.pollHyprlandCursor(ctx, onMove)
	case "sway":
		return d.subscribeSway(ctx, onMove)
	default:
		return fmt.Errorf("input activity is not available on %s", d.compositor)
	}
}

func (d *Detector) pollHyprlandCursor(ctx context.Context, onMove func()) error {
	ticker := time.NewTicker(d.pointerInterval)
	defer ticker.Stop()

	var tracker window.PointerTracker
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			output, err := exec.CommandContext(ctx, "hyprctl", "cursorpos").Output()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("failed to query cursor position: %w", err)
			}
			x, y, err := parseCursorPos(string(output))
			if err != nil {
				return err
			}
			if tracker.Moved(x, y) {
				onMove()
			}
		}
	}
}

func (d *Detector) subscribeSway(ctx context.Context, onMove func()) error {
	cmd := exec.CommandContext(ctx, "swaymsg", "-m", "-t", "subscribe", `["window","workspace","binding"]`)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open sway event stream: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to subscribe to sway events: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			onMove()
		}
	}

	err = cmd.Wait()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("sway event stream ended: %w", err)
	}
	return nil
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}
