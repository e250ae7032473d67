package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"worktrack/pkg/window"
)

const defaultProcRoot = "/proc"

// Table enumerates processes through a procfs mount
type Table struct {
	root string
}

type processInfo struct {
	pid     int
	name    string
	cmdline string
}

// NewTable creates a process table backed by /proc
func NewTable() *Table {
	return &Table{root: defaultProcRoot}
}

// NewTableAt creates a process table backed by an alternative procfs root
func NewTableAt(root string) *Table {
	return &Table{root: root}
}

// IsAvailable checks if the procfs root can be read
func (t *Table) IsAvailable() bool {
	_, err := os.Stat(t.root)
	return err == nil
}

// Running reports whether any process matches the given executable name
func (t *Table) Running(name string) (bool, error) {
	entries, err := os.ReadDir(t.root)
	if err != nil {
		return false, fmt.Errorf("failed to scan processes: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		// Processes exit while we scan; skip them.
		info, err := t.readProcessInfo(pid)
		if err != nil {
			continue
		}

		if info.matches(name) {
			return true, nil
		}
	}

	return false, nil
}

// Name returns the executable name of pid
func (t *Table) Name(pid int) (string, error) {
	info, err := t.readProcessInfo(pid)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("pid %d: %w", pid, window.ErrNoSuchProcess)
		}
		return "", fmt.Errorf("failed to inspect pid %d: %w", pid, err)
	}

	if exe := info.executable(); exe != "" {
		return exe, nil
	}
	return info.name, nil
}

func (t *Table) readProcessInfo(pid int) (*processInfo, error) {
	info := &processInfo{pid: pid}

	statPath := filepath.Join(t.root, strconv.Itoa(pid), "stat")
	statData, err := os.ReadFile(statPath)
	if err != nil {
		return nil, err
	}
	info.name = parseStatName(string(statData))

	cmdlinePath := filepath.Join(t.root, strconv.Itoa(pid), "cmdline")
	if cmdData, err := os.ReadFile(cmdlinePath); err == nil {
		info.cmdline = strings.ReplaceAll(strings.TrimRight(string(cmdData), "\x00"), "\x00", " ")
	}

	return info, nil
}

// executable returns the base name of argv[0]
func (p *processInfo) executable() string {
	fields := strings.Fields(p.cmdline)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}

// matches compares against both the kernel comm name, which is truncated to
// 15 bytes, and the argv[0] base name.
func (p *processInfo) matches(name string) bool {
	if name == "" {
		return false
	}
	if p.name == name || p.executable() == name {
		return true
	}
	return len(name) > 15 && p.name == name[:15]
}

// parseStatName extracts the comm field from /proc/<pid>/stat
func parseStatName(stat string) string {
	startIdx := strings.Index(stat, "(")
	endIdx := strings.LastIndex(stat, ")")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return stat[startIdx+1 : endIdx]
}
