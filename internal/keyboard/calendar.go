// Package keyboard renders the inline button grids the bot uses for date
// and time selection. Rendering is pure: callers pass "today" explicitly
// and receive rows of buttons carrying encoded callback data.
package keyboard

import (
	"fmt"
	"time"

	"github.com/myslide/leavebot/internal/event"
	"github.com/myslide/leavebot/internal/store"
)

// Button is one inline key: a visible label and its callback data.
type Button struct {
	Label string
	Data  string
}

var weekdayHeaders = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Calendar builds the date-selection grid for one month.
//
// Day cells strictly before today are inert, as are cells before the
// provisional range start in range mode. Selected dates render starred.
// In multiple mode a "Done" control appears once the set is non-empty.
func Calendar(year int, month time.Month, mode store.DurationMode, selected []time.Time, today time.Time) [][]Button {
	today = DateOnly(today)

	rows := [][]Button{
		{
			{Label: "<", Data: event.EncodeCalendarNav(year, int(month)-1)},
			{Label: fmt.Sprintf("%s %d", month.String(), year), Data: event.EncodeIgnore()},
			{Label: ">", Data: event.EncodeCalendarNav(year, int(month)+1)},
		},
	}

	header := make([]Button, 0, 7)
	for _, wd := range weekdayHeaders {
		header = append(header, Button{Label: wd, Data: event.EncodeIgnore()})
	}
	rows = append(rows, header)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-anchored column index of the 1st.
	offset := (int(first.Weekday()) + 6) % 7

	week := make([]Button, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, Button{Label: " ", Data: event.EncodeIgnore()})
	}

	for day := 1; day <= daysInMonth; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		week = append(week, dayButton(d, day, mode, selected, today))
		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]Button, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, Button{Label: " ", Data: event.EncodeIgnore()})
		}
		rows = append(rows, week)
	}

	if mode == store.ModeMultiple && len(selected) > 0 {
		rows = append(rows, []Button{{Label: "✅ Done", Data: event.EncodeCalendarDone()}})
	}

	return rows
}

func dayButton(d time.Time, day int, mode store.DurationMode, selected []time.Time, today time.Time) Button {
	disabled := d.Before(today)
	if mode == store.ModeRange && len(selected) > 0 && d.Before(DateOnly(selected[0])) {
		disabled = true
	}
	if disabled {
		return Button{Label: " ", Data: event.EncodeIgnore()}
	}

	label := fmt.Sprintf("%d", day)
	for _, s := range selected {
		if sameDate(s, d) {
			label = fmt.Sprintf("*%d*", day)
			break
		}
	}
	return Button{Label: label, Data: event.EncodeCalendarDay(d.Year(), int(d.Month()), day)}
}

// Week builds seven buttons for start..start+6, one per day.
// The caller anchors start at today, so no past dates appear.
func Week(start time.Time) []Button {
	start = DateOnly(start)
	buttons := make([]Button, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		buttons = append(buttons, Button{
			Label: fmt.Sprintf("%s %d", d.Weekday().String()[:3], d.Day()),
			Data:  event.EncodeWeekDay(d),
		})
	}
	return buttons
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
