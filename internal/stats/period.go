package stats

import (
	"fmt"
	"time"

	"worktrack/internal/models"
)

// Period returns the [start, end) window of the given kind containing now.
// Weeks start on Sunday.
func Period(kind string, now time.Time) (*models.ReportPeriod, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var start, end time.Time

	switch kind {
	case "day", "today":
		kind = "day"
		start = midnight
		end = start.AddDate(0, 0, 1)

	case "week":
		start = midnight.AddDate(0, 0, -int(now.Weekday()))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	case "year":
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(1, 0, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month, year)", kind)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  kind,
	}, nil
}
