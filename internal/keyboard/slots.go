package keyboard

import (
	"fmt"

	"github.com/myslide/leavebot/internal/event"
	"github.com/myslide/leavebot/internal/store"
)

// Fixed time menus per permission subtype. These are static enumerations,
// not computed windows.
var (
	lateArrivalSlots = []string{
		"9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
		"12:00 PM", "12:30 PM", "1:00 PM", "1:30 PM", "2:00 PM",
	}
	earlyDepartureSlots = []string{
		"11:00 AM", "11:30 AM", "12:00 PM", "12:30 PM", "1:00 PM",
		"1:30 PM", "2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM",
	}
)

// TimeSlots builds the fixed time menu for a permission subtype, two per row.
// An unknown subtype yields no options and an error so the caller can report
// it instead of proceeding with an empty menu.
func TimeSlots(subtype store.Subtype) ([][]Button, error) {
	var slots []string
	switch subtype {
	case store.SubtypeLate:
		slots = lateArrivalSlots
	case store.SubtypeEarly:
		slots = earlyDepartureSlots
	default:
		return nil, fmt.Errorf("unknown permission subtype: %q", subtype)
	}

	rows := make([][]Button, 0, (len(slots)+1)/2)
	for i := 0; i < len(slots); i += 2 {
		row := []Button{{Label: slots[i], Data: event.EncodeTimeSlot(slots[i])}}
		if i+1 < len(slots) {
			row = append(row, Button{Label: slots[i+1], Data: event.EncodeTimeSlot(slots[i+1])})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
