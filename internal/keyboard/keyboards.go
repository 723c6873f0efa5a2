package keyboard

import (
	"github.com/myslide/leavebot/internal/event"
	"github.com/myslide/leavebot/internal/store"
)

// MainMenu is the employee-facing entry keyboard.
func MainMenu() [][]Button {
	return [][]Button{
		{{Label: "🕒 Hourly permission", Data: event.EncodeMenu(event.FlowHourly)}},
		{{Label: "🗓 Full-day leave", Data: event.EncodeMenu(event.FlowFullDay)}},
		{{Label: "💡 Send a suggestion", Data: event.EncodeMenu(event.FlowSuggestion)}},
	}
}

// DurationModes offers the three full-day date selection modes.
func DurationModes() [][]Button {
	return [][]Button{
		{{Label: "🗓 Single day", Data: event.EncodeDuration(store.ModeSingle)}},
		{{Label: "🔁 Consecutive days", Data: event.EncodeDuration(store.ModeRange)}},
		{{Label: "➕ Separate days", Data: event.EncodeDuration(store.ModeMultiple)}},
		NavRow(),
	}
}

// Subtypes offers the two hourly permission variants.
func Subtypes() [][]Button {
	return [][]Button{
		{{Label: "🌅 Late arrival", Data: event.EncodeSubtype(store.SubtypeLate)}},
		{{Label: "🌇 Early departure", Data: event.EncodeSubtype(store.SubtypeEarly)}},
		{{Label: "❌ Cancel", Data: event.EncodeCancel()}},
	}
}

// ConfirmCancel is the terminal pair on every confirmation summary.
func ConfirmCancel() [][]Button {
	return [][]Button{
		{
			{Label: "✅ Confirm", Data: event.EncodeConfirm()},
			{Label: "❌ Cancel", Data: event.EncodeCancel()},
		},
		{{Label: "« Back", Data: event.EncodeBack()}},
	}
}

// Decision is the approve/reject pair attached to an approver notification.
func Decision(kind store.Kind, requestID string) [][]Button {
	return [][]Button{{
		{Label: "✅ Approve", Data: event.EncodeDecision(event.ActionApprove, kind, requestID)},
		{Label: "❌ Reject", Data: event.EncodeDecision(event.ActionReject, kind, requestID)},
	}}
}

// SkipReason lets an approver reject without a textual reason.
func SkipReason() [][]Button {
	return [][]Button{{{Label: "Skip reason", Data: event.EncodeSkipReason()}}}
}

// NavRow is the back/cancel pair appended to mid-flow prompts.
func NavRow() []Button {
	return []Button{
		{Label: "« Back", Data: event.EncodeBack()},
		{Label: "❌ Cancel", Data: event.EncodeCancel()},
	}
}
