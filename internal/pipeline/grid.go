package pipeline

import "github.com/theirongolddev/cashcal/internal/model"

// BuildCalendar lays dates out in Sunday-first week rows. The first row is
// led by one padding cell per weekday before dates[0]; the last row is
// right-padded. Reading the non-padding cells row by row gives back dates.
func BuildCalendar(dates []model.Date) []model.WeekRow {
	if len(dates) == 0 {
		return nil
	}

	lead := int(dates[0].Weekday())
	n := lead + len(dates)
	rows := make([]model.WeekRow, (n+6)/7)

	for i, d := range dates {
		slot := lead + i
		rows[slot/7][slot%7].Date = d
	}
	return rows
}
