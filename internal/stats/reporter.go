// Package stats turns the record log into per-bucket wage statistics and
// per-project summaries.
package stats

import (
	"bufio"
	"cmp"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"worktrack/internal/config"
	"worktrack/internal/models"
	"worktrack/internal/recorder"
)

// Reporter computes statistics from the CSV record log
type Reporter struct {
	logPath        string
	exclusionsPath string
	wage           config.WageConfig
	now            func() time.Time
}

// Option configures a Reporter
type Option func(*Reporter)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// NewReporter creates a reporter over the given files
func NewReporter(logPath, exclusionsPath string, wage config.WageConfig, opts ...Option) *Reporter {
	r := &Reporter{
		logPath:        logPath,
		exclusionsPath: exclusionsPath,
		wage:           wage,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calculate reads the log and returns the current statistics. It returns
// nil with no error when the log does not exist yet.
func (r *Reporter) Calculate() (*models.Statistics, error) {
	f, err := os.Open(r.logPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open record log")
	}
	defer f.Close()

	exclusions, err := LoadExclusions(r.exclusionsPath)
	if err != nil {
		return nil, err
	}

	stats := Compute(f, exclusions, r.now(), r.wage)
	return &stats, nil
}

// Projects summarizes the log per project over the period of the given kind.
// It returns nil with no error when the log does not exist yet.
func (r *Reporter) Projects(kind string) (*models.ProjectReport, error) {
	now := r.now()
	period, err := Period(kind, now)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(r.logPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open record log")
	}
	defer f.Close()

	exclusions, err := LoadExclusions(r.exclusionsPath)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*models.ProjectSummary)
	var order []string
	for _, e := range readEntries(f, now.Location()) {
		if _, skip := exclusions[e.project]; skip {
			continue
		}
		if e.at.Before(period.Start) || !e.at.Before(period.End) {
			continue
		}
		s, ok := totals[e.project]
		if !ok {
			s = &models.ProjectSummary{Project: e.project}
			totals[e.project] = s
			order = append(order, e.project)
		}
		s.TotalSeconds += e.seconds
		s.SessionCount++
	}

	summaries := make([]models.ProjectSummary, 0, len(order))
	for _, name := range order {
		summaries = append(summaries, *totals[name])
	}
	return NewProjectReport(*period, summaries, now), nil
}

// NewProjectReport fills in hours, percentages and totals, ordering projects
// by descending time.
func NewProjectReport(period models.ReportPeriod, summaries []models.ProjectSummary, generatedAt time.Time) *models.ProjectReport {
	var total float64
	for i := range summaries {
		summaries[i].TotalHours = summaries[i].TotalSeconds / 3600.0
		total += summaries[i].TotalSeconds
	}
	if total > 0 {
		for i := range summaries {
			summaries[i].Percentage = summaries[i].TotalSeconds / total * 100.0
		}
	}
	sortSummaries(summaries)

	return &models.ProjectReport{
		Period:       period,
		Projects:     summaries,
		TotalSeconds: total,
		TotalHours:   total / 3600.0,
		GeneratedAt:  generatedAt,
	}
}

func sortSummaries(s []models.ProjectSummary) {
	slices.SortStableFunc(s, func(a, b models.ProjectSummary) int {
		return cmp.Compare(b.TotalSeconds, a.TotalSeconds)
	})
}

// Compute sums the log read from r into the day, week, month and year
// buckets relative to now and converts them into hourly rates.
func Compute(r io.Reader, exclusions map[string]struct{}, now time.Time, wage config.WageConfig) models.Statistics {
	loc := now.Location()
	week, _ := Period("week", now)
	weekEnd := week.End.Add(-time.Second)

	var day, weekTotal, month, year float64
	for _, e := range readEntries(r, loc) {
		if _, skip := exclusions[e.project]; skip {
			continue
		}

		if sameDay(e.at, now) {
			day += e.seconds
		}
		if !e.at.Before(week.Start) && !e.at.After(weekEnd) {
			weekTotal += e.seconds
		}
		if e.at.Year() == now.Year() && e.at.Month() == now.Month() {
			month += e.seconds
		}
		if e.at.Year() == now.Year() {
			year += e.seconds
		}
	}

	return models.Statistics{
		Day:        hourlyRate(day, wage.Daily()),
		Week:       hourlyRate(weekTotal, wage.Weekly),
		Month:      hourlyRate(month, wage.Monthly()),
		Year:       hourlyRate(year, wage.Yearly()),
		DayHours:   day / 3600,
		WeekHours:  weekTotal / 3600,
		MonthHours: month / 3600,
		YearHours:  year / 3600,
	}
}

func hourlyRate(seconds, wage float64) float64 {
	hours := seconds / 3600
	if hours <= 0 {
		return 0
	}
	return wage / hours
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type entry struct {
	at      time.Time
	project string
	seconds float64
}

// readEntries parses the record log, skipping rows that cannot be read.
// Columns are located by header name.
func readEntries(r io.Reader, loc *time.Location) []entry {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	dateCol, okDate := cols[recorder.Header[0]]
	projectCol, okProject := cols[recorder.Header[1]]
	durationCol, okDuration := cols[recorder.Header[2]]
	if !okDate || !okProject || !okDuration {
		return nil
	}

	var entries []entry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			break
		}
		if len(row) <= max(dateCol, projectCol, durationCol) {
			continue
		}

		at, err := ParseTimestamp(row[dateCol], loc)
		if err != nil {
			continue
		}
		seconds, err := strconv.ParseFloat(strings.TrimSpace(row[durationCol]), 64)
		if err != nil {
			continue
		}
		entries = append(entries, entry{
			at:      at,
			project: strings.TrimSpace(row[projectCol]),
			seconds: seconds,
		})
	}
	return entries
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseTimestamp accepts the record log's own layout as well as ISO-8601
// variants with or without fractional seconds and UTC offset. Zoneless
// values are read in loc; zoned values are converted to loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(loc), nil
		}
	}
	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// LoadExclusions reads one project name per line. Blank lines and lines
// starting with '#' are ignored. A missing file yields an empty set.
func LoadExclusions(path string) (map[string]struct{}, error) {
	exclusions := make(map[string]struct{})
	if path == "" {
		return exclusions, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return exclusions, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open exclusions file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exclusions[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read exclusions file")
	}
	return exclusions, nil
}
