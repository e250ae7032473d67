package models

// Statistics holds hourly-equivalent wages and hours worked per calendar bucket
type Statistics struct {
	Day   float64 `json:"day"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`

	DayHours   float64 `json:"day_hours"`
	WeekHours  float64 `json:"week_hours"`
	MonthHours float64 `json:"month_hours"`
	YearHours  float64 `json:"year_hours"`
}
