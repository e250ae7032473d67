package recorder

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"worktrack/internal/models"
)

// TimestampLayout is the ISO-8601 local timestamp written to the Date column
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Header is the first row of every record log
var Header = []string{"Date", "Project", "Duration (seconds)"}

// CSVLog appends session records to a CSV file. It assumes one writer process.
type CSVLog struct {
	path string
}

// NewCSVLog creates a record log at path
func NewCSVLog(path string) *CSVLog {
	return &CSVLog{path: path}
}

// Path returns the file location
func (l *CSVLog) Path() string {
	return l.path
}

// Append writes one row, creating the file and its header when needed
func (l *CSVLog) Append(_ context.Context, rec models.SessionRecord) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create record log directory")
		}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open record log")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "failed to stat record log")
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return errors.Wrap(err, "failed to write record log header")
		}
	}

	row := []string{
		rec.Timestamp.Local().Format(TimestampLayout),
		rec.Project,
		strconv.FormatFloat(max(rec.DurationSeconds, 0), 'f', 2, 64),
	}
	if err := w.Write(row); err != nil {
		return errors.Wrap(err, "failed to write session record")
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "failed to flush session record")
	}
	return nil
}
