// Package event defines the typed events the conversation engine consumes
// and their compact callback-data wire form. Encoding and decoding happen
// only here; the rest of the system never inspects the string form.
package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/myslide/leavebot/internal/store"
)

// Type discriminates the event union.
type Type string

const (
	TypeText         Type = "text"     // free-text message, engine-constructed
	TypeIgnore       Type = "ignore"   // inert cell, no transition
	TypeMenu         Type = "menu"     // flow entry from the main menu
	TypeDuration     Type = "dur"      // full-day duration mode pick
	TypeSubtype      Type = "sub"      // hourly permission subtype pick
	TypeCalendarDay  Type = "cal_day"  // calendar day chosen
	TypeCalendarNav  Type = "cal_nav"  // calendar month shift
	TypeCalendarDone Type = "cal_done" // multiple-mode selection complete
	TypeWeekDay      Type = "week"     // weekly slot date pick
	TypeTimeSlot     Type = "time"     // time slot pick
	TypeConfirm      Type = "confirm"
	TypeCancel       Type = "cancel"
	TypeBack         Type = "back"
	TypeDecision     Type = "decision" // approver approve/reject
	TypeSkipReason   Type = "skip"     // approver skips the rejection reason
)

// Flow names a conversation purpose.
type Flow string

const (
	FlowFullDay    Flow = "fullday"
	FlowHourly     Flow = "hourly"
	FlowSuggestion Flow = "suggest"
)

// Action is an approver decision verb.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

const dateLayout = "2006-01-02"

// Event is the decoded form of one inbound interaction.
// Only the fields relevant to Type are populated.
type Event struct {
	Type      Type
	Text      string
	Flow      Flow
	Mode      store.DurationMode
	Subtype   store.Subtype
	Year      int
	Month     int
	Day       int
	Date      time.Time
	Slot      string
	Action    Action
	Kind      store.Kind
	RequestID string
}

// Text wraps a free-text message as an event.
func TextEvent(s string) Event { return Event{Type: TypeText, Text: s} }

// =============================================================================
// Encoders - produce the callback data carried by inline buttons.
// =============================================================================

func EncodeIgnore() string                       { return "noop" }
func EncodeMenu(f Flow) string                   { return "menu|" + string(f) }
func EncodeDuration(m store.DurationMode) string { return "dur|" + string(m) }
func EncodeSubtype(s store.Subtype) string       { return "sub|" + string(s) }
func EncodeConfirm() string                      { return "confirm" }
func EncodeCancel() string                       { return "cancel" }
func EncodeBack() string                         { return "back" }
func EncodeCalendarDone() string                 { return "cal|done" }
func EncodeSkipReason() string                   { return "dec|skip" }

func EncodeCalendarDay(year, month, day int) string {
	return fmt.Sprintf("cal|day|%d|%d|%d", year, month, day)
}

func EncodeCalendarNav(year, month int) string {
	return fmt.Sprintf("cal|nav|%d|%d", year, month)
}

func EncodeWeekDay(d time.Time) string {
	return "week|" + d.Format(dateLayout)
}

func EncodeTimeSlot(label string) string {
	return "time|" + label
}

func EncodeDecision(a Action, k store.Kind, requestID string) string {
	return fmt.Sprintf("dec|%s|%s|%s", a, k, requestID)
}

// =============================================================================
// Decoder
// =============================================================================

// Decode parses callback data into a typed event.
func Decode(data string) (Event, error) {
	parts := strings.Split(data, "|")
	switch parts[0] {
	case "noop":
		return Event{Type: TypeIgnore}, nil
	case "confirm":
		return Event{Type: TypeConfirm}, nil
	case "cancel":
		return Event{Type: TypeCancel}, nil
	case "back":
		return Event{Type: TypeBack}, nil
	case "menu":
		if len(parts) != 2 {
			return Event{}, fmt.Errorf("malformed menu event: %q", data)
		}
		switch Flow(parts[1]) {
		case FlowFullDay, FlowHourly, FlowSuggestion:
			return Event{Type: TypeMenu, Flow: Flow(parts[1])}, nil
		}
		return Event{}, fmt.Errorf("unknown flow: %q", parts[1])
	case "dur":
		if len(parts) != 2 {
			return Event{}, fmt.Errorf("malformed duration event: %q", data)
		}
		switch store.DurationMode(parts[1]) {
		case store.ModeSingle, store.ModeRange, store.ModeMultiple:
			return Event{Type: TypeDuration, Mode: store.DurationMode(parts[1])}, nil
		}
		return Event{}, fmt.Errorf("unknown duration mode: %q", parts[1])
	case "sub":
		if len(parts) != 2 {
			return Event{}, fmt.Errorf("malformed subtype event: %q", data)
		}
		switch store.Subtype(parts[1]) {
		case store.SubtypeLate, store.SubtypeEarly:
			return Event{Type: TypeSubtype, Subtype: store.Subtype(parts[1])}, nil
		}
		return Event{}, fmt.Errorf("unknown permission subtype: %q", parts[1])
	case "cal":
		return decodeCalendar(parts, data)
	case "week":
		if len(parts) != 2 {
			return Event{}, fmt.Errorf("malformed week event: %q", data)
		}
		d, err := time.Parse(dateLayout, parts[1])
		if err != nil {
			return Event{}, fmt.Errorf("malformed week date: %q", parts[1])
		}
		return Event{Type: TypeWeekDay, Date: d}, nil
	case "time":
		if len(parts) != 2 || parts[1] == "" {
			return Event{}, fmt.Errorf("malformed time event: %q", data)
		}
		return Event{Type: TypeTimeSlot, Slot: parts[1]}, nil
	case "dec":
		return decodeDecision(parts, data)
	}
	return Event{}, fmt.Errorf("unknown event: %q", data)
}

func decodeCalendar(parts []string, data string) (Event, error) {
	if len(parts) < 2 {
		return Event{}, fmt.Errorf("malformed calendar event: %q", data)
	}
	switch parts[1] {
	case "done":
		return Event{Type: TypeCalendarDone}, nil
	case "day":
		if len(parts) != 5 {
			return Event{}, fmt.Errorf("malformed calendar day event: %q", data)
		}
		year, err1 := strconv.Atoi(parts[2])
		month, err2 := strconv.Atoi(parts[3])
		day, err3 := strconv.Atoi(parts[4])
		if err1 != nil || err2 != nil || err3 != nil {
			return Event{}, fmt.Errorf("malformed calendar day event: %q", data)
		}
		return Event{Type: TypeCalendarDay, Year: year, Month: month, Day: day}, nil
	case "nav":
		if len(parts) != 4 {
			return Event{}, fmt.Errorf("malformed calendar nav event: %q", data)
		}
		year, err1 := strconv.Atoi(parts[2])
		month, err2 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil {
			return Event{}, fmt.Errorf("malformed calendar nav event: %q", data)
		}
		// Navigation rolls over year boundaries in either direction.
		if month < 1 {
			year--
			month = 12
		} else if month > 12 {
			year++
			month = 1
		}
		return Event{Type: TypeCalendarNav, Year: year, Month: month}, nil
	}
	return Event{}, fmt.Errorf("unknown calendar event: %q", data)
}

func decodeDecision(parts []string, data string) (Event, error) {
	if len(parts) == 2 && parts[1] == "skip" {
		return Event{Type: TypeSkipReason}, nil
	}
	if len(parts) != 4 {
		return Event{}, fmt.Errorf("malformed decision event: %q", data)
	}
	action := Action(parts[1])
	if action != ActionApprove && action != ActionReject {
		return Event{}, fmt.Errorf("unknown decision action: %q", parts[1])
	}
	kind := store.Kind(parts[2])
	if kind != store.KindFullDay && kind != store.KindHourly {
		return Event{}, fmt.Errorf("unknown request kind: %q", parts[2])
	}
	if parts[3] == "" {
		return Event{}, fmt.Errorf("missing request id: %q", data)
	}
	return Event{Type: TypeDecision, Action: action, Kind: kind, RequestID: parts[3]}, nil
}
