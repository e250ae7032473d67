package x11

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"worktrack/pkg/integrations/process"
	"worktrack/pkg/window"
)

const (
	displayServer          = "x11"
	defaultPointerInterval = 250 * time.Millisecond
	activeWindowAttempts   = 3
	maxTitleLength         = 256
)

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"UTF8_STRING",
}

// Detector implements window.Detector for X11 using a native protocol connection
type Detector struct {
	conn            *xgb.Conn
	root            xproto.Window
	atoms           map[string]xproto.Atom
	procs           *process.Table
	pointerInterval time.Duration
}

// NewDetector connects to the X server named by $DISPLAY
func NewDetector(pointerInterval time.Duration) (*Detector, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	if pointerInterval <= 0 {
		pointerInterval = defaultPointerInterval
	}

	d := &Detector{
		conn:            conn,
		root:            xproto.Setup(conn).DefaultScreen(conn).Root,
		atoms:           make(map[string]xproto.Atom, len(atomNames)),
		procs:           process.NewTable(),
		pointerInterval: pointerInterval,
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		d.atoms[name] = reply.Atom
	}

	return d, nil
}

// IsAvailable checks if the X connection and procfs are usable
func (d *Detector) IsAvailable() bool {
	return d.conn != nil && d.procs.IsAvailable()
}

// GetDisplayServer returns "x11"
func (d *Detector) GetDisplayServer() string {
	return displayServer
}

// ProcessRunning reports whether a process with the given name exists
func (d *Detector) ProcessRunning(name string) (bool, error) {
	return d.procs.Running(name)
}

// GetFocusedWindow returns the focused top-level window and its owning process
func (d *Detector) GetFocusedWindow() (*window.FocusedWindow, error) {
	win, err := d.getActiveWindow()
	if err != nil {
		return nil, err
	}

	fw := &window.FocusedWindow{
		Title:         d.getWindowName(win),
		PID:           d.getWindowPID(win),
		DisplayServer: displayServer,
	}

	// Windows that do not advertise _NET_WM_PID cannot be attributed.
	if fw.PID == 0 {
		return fw, nil
	}

	name, err := d.procs.Name(int(fw.PID))
	if err != nil {
		return nil, err
	}
	fw.ProcessName = name

	return fw, nil
}

// WatchPointer samples the cursor position and calls onMove whenever it changes
func (d *Detector) WatchPointer(ctx context.Context, onMove func()) error {
	ticker := time.NewTicker(d.pointerInterval)
	defer ticker.Stop()

	var tracker window.PointerTracker
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
			if err != nil {
				continue
			}
			if tracker.Moved(int32(reply.RootX), int32(reply.RootY)) {
				onMove()
			}
		}
	}
}

// Close cleans up resources
func (d *Detector) Close() error {
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	return nil
}

func (d *Detector) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(d.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (d *Detector) getActiveWindowFromProperty() xproto.Window {
	data, err := d.getProperty(d.root, d.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil {
		return 0
	}
	id, ok := decodeUint32(data)
	if !ok {
		return 0
	}
	return xproto.Window(id)
}

func (d *Detector) getActiveWindowFromInputFocus() xproto.Window {
	reply, err := xproto.GetInputFocus(d.conn).Reply()
	if err != nil {
		return 0
	}
	return reply.Focus
}

func (d *Detector) getTopLevelParent(win xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(d.conn, win).Reply()
		if err != nil || reply.Parent == d.root || reply.Parent == 0 {
			return win
		}
		win = reply.Parent
	}
}

func (d *Detector) hasValidName(win xproto.Window) bool {
	return d.getWindowName(win) != ""
}

// getActiveWindow prefers the EWMH hint and falls back to the input focus,
// retrying briefly because window managers update the hint asynchronously.
func (d *Detector) getActiveWindow() (xproto.Window, error) {
	for i := 0; i < activeWindowAttempts; i++ {
		win := d.getActiveWindowFromProperty()
		if win != 0 && d.hasValidName(win) {
			return win, nil
		}

		win = d.getActiveWindowFromInputFocus()
		if win != 0 && win != d.root {
			topLevel := d.getTopLevelParent(win)
			if topLevel != 0 && d.hasValidName(topLevel) {
				return topLevel, nil
			}
		}

		time.Sleep(20 * time.Millisecond)
	}

	return 0, window.ErrNoFocusedWindow
}

func (d *Detector) getWindowName(win xproto.Window) string {
	data, err := d.getProperty(win, d.atoms["_NET_WM_NAME"], d.atoms["UTF8_STRING"], maxTitleLength)
	if err == nil && len(data) > 0 {
		return trimProperty(data)
	}

	data, err = d.getProperty(win, d.atoms["WM_NAME"], xproto.AtomString, maxTitleLength)
	if err == nil && len(data) > 0 {
		return trimProperty(data)
	}

	return ""
}

func (d *Detector) getWindowPID(win xproto.Window) uint32 {
	data, err := d.getProperty(win, d.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil {
		return 0
	}
	pid, _ := decodeUint32(data)
	return pid
}

// decodeUint32 reads a 32-bit CARDINAL or WINDOW property value
func decodeUint32(data []byte) (uint32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data), true
}

// trimProperty converts a string property, dropping NUL padding
func trimProperty(data []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(data), "\x00"))
}
