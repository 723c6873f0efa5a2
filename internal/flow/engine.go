// Package flow drives the per-user conversation state machine: full-day
// leave requests, hourly permissions, suggestions and the approver
// reject-reason exchange.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/myslide/leavebot/internal/approval"
	"github.com/myslide/leavebot/internal/audit"
	"github.com/myslide/leavebot/internal/bus"
	"github.com/myslide/leavebot/internal/directory"
	"github.com/myslide/leavebot/internal/event"
	"github.com/myslide/leavebot/internal/keyboard"
	"github.com/myslide/leavebot/internal/notify"
	"github.com/myslide/leavebot/internal/store"
)

const displayDate = "02/01/2006"

const (
	promptName       = "🙋 What is your name? Reply with a message."
	promptReason     = "📝 What is the reason? Reply with a message."
	promptSuggestion = "💡 Write your suggestion as a message. It is shared with HR."
)

// navRows is the back/cancel control attached to text-entry prompts.
func navRows() [][]keyboard.Button {
	return [][]keyboard.Button{keyboard.NavRow()}
}

// Engine consumes inbound messages and advances conversations.
type Engine struct {
	sessions  *Sessions
	store     *store.Store
	dir       *directory.Directory
	dispatch  *notify.Dispatcher
	approvals *approval.Controller
	bus       *bus.MessageBus
	audit     *audit.Writer
	logger    *slog.Logger
	now       func() time.Time
}

func NewEngine(sessions *Sessions, s *store.Store, d *directory.Directory,
	n *notify.Dispatcher, a *approval.Controller, b *bus.MessageBus, logger *slog.Logger) *Engine {
	return &Engine{
		sessions:  sessions,
		store:     s,
		dir:       d,
		dispatch:  n,
		approvals: a,
		bus:       b,
		logger:    logger,
		now:       time.Now,
	}
}

// SetAudit attaches an audit trail for submitted requests.
func (e *Engine) SetAudit(w *audit.Writer) { e.audit = w }

// Run processes inbound messages until ctx is done, sweeping idle
// sessions on the given interval.
func (e *Engine) Run(ctx context.Context, sweepEvery time.Duration) {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := e.sessions.Sweep(); n > 0 {
				e.logger.Debug("expired idle sessions", "count", n)
			}
		case msg := <-e.bus.Inbound():
			e.Handle(ctx, msg)
		}
	}
}

// Handle advances one user's conversation by one inbound message.
func (e *Engine) Handle(ctx context.Context, msg *bus.InboundMessage) {
	sess := e.sessions.GetOrCreate(msg.SenderID, msg.ChatID, msg.Name)

	switch msg.Kind {
	case bus.KindText:
		e.handleText(ctx, sess, strings.TrimSpace(msg.Content))
	case bus.KindButton:
		ev, err := event.Decode(msg.Payload)
		if err != nil {
			e.logger.Warn("undecodable callback", "payload", msg.Payload, "err", err)
			return
		}
		e.handleEvent(ctx, sess, ev, msg.MessageID)
	}
}

// =============================================================================
// Text input
// =============================================================================

func (e *Engine) handleText(ctx context.Context, sess *Session, text string) {
	if text == "/start" || text == "/menu" {
		sess.Reset()
		e.dispatch.Send(sess.ChatID, e.greeting(ctx, sess), keyboard.MainMenu())
		return
	}

	switch sess.State {
	case StateFullDayName:
		sess.EnteredName = text
		sess.State = StateFullDayReason
		e.dispatch.Send(sess.ChatID, promptReason, navRows())

	case StateFullDayReason:
		sess.Reason = text
		sess.State = StateFullDayMode
		e.dispatch.Send(sess.ChatID, "How many days?", keyboard.DurationModes())

	case StateHourlyName:
		sess.EnteredName = text
		sess.State = StateHourlyReason
		e.dispatch.Send(sess.ChatID, promptReason, navRows())

	case StateHourlyReason:
		sess.Reason = text
		sess.State = StateHourlyConfirm
		e.dispatch.Send(sess.ChatID, e.hourlyPreview(sess), keyboard.ConfirmCancel())

	case StateSuggestion:
		sess.Message = text
		sess.State = StateSuggestionConfirm
		e.dispatch.Send(sess.ChatID, "Send this suggestion to HR?\n\n"+text, keyboard.ConfirmCancel())

	case StateRejectReason:
		e.finishReject(ctx, sess, text)

	case StateIdle:
		e.dispatch.Send(sess.ChatID, "Use the menu below to start a request.", keyboard.MainMenu())

	default:
		// The state is waiting on a button press; leave the prompt as is.
	}
}

func (e *Engine) greeting(ctx context.Context, sess *Session) string {
	name := sess.Name
	if u, err := e.dir.Lookup(ctx, sess.UserID); err == nil && u.Name != "" {
		name = u.Name
		sess.Name = u.Name
	}
	greeting := fmt.Sprintf("👋 Hello %s!", name)
	switch e.dir.Role(ctx, sess.UserID) {
	case store.RoleTeamLeader:
		greeting += "\nYou will be notified when requests on your team are approved."
	case store.RoleHR:
		greeting += "\nNew requests will arrive here for your decision."
	}
	return greeting + "\nWhat would you like to do?"
}

// =============================================================================
// Button input
// =============================================================================

type handler func(e *Engine, ctx context.Context, sess *Session, ev event.Event, messageID int)

// transitions maps (current state, event type) to the step that runs.
// A pair missing from the table is ignored: no transition, the previous
// prompt stays visible. Cancel, back, menu and approver decisions are
// accepted from any state and handled before the lookup.
var transitions = map[State]map[event.Type]handler{
	StateFullDayMode: {
		event.TypeDuration: (*Engine).pickMode,
	},
	StateFullDayCalendar: {
		event.TypeCalendarNav:  (*Engine).navCalendar,
		event.TypeCalendarDay:  (*Engine).pickCalendarDay,
		event.TypeCalendarDone: (*Engine).finishSelection,
	},
	StateFullDayConfirm: {
		event.TypeConfirm: (*Engine).submit,
	},
	StateHourlySubtype: {
		event.TypeSubtype: (*Engine).pickSubtype,
	},
	StateHourlyDay: {
		event.TypeWeekDay: (*Engine).pickWeekDay,
	},
	StateHourlySlot: {
		event.TypeTimeSlot: (*Engine).pickSlot,
	},
	StateHourlyConfirm: {
		event.TypeConfirm: (*Engine).submit,
	},
	StateSuggestionConfirm: {
		event.TypeConfirm: (*Engine).submit,
	},
	StateRejectReason: {
		event.TypeSkipReason: (*Engine).skipRejectReason,
	},
}

func (e *Engine) handleEvent(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	switch ev.Type {
	case event.TypeIgnore:
		return

	case event.TypeCancel:
		sess.Reset()
		e.dispatch.Edit(sess.ChatID, messageID, "Request cancelled.", nil)
		e.dispatch.Send(sess.ChatID, "What would you like to do?", keyboard.MainMenu())
		return

	case event.TypeBack:
		e.stepBack(sess, messageID)
		return

	case event.TypeMenu:
		e.startFlow(sess, ev.Flow, messageID)
		return

	case event.TypeDecision:
		e.handleDecision(ctx, sess, ev, messageID)
		return
	}

	if h, ok := transitions[sess.State][ev.Type]; ok {
		h(e, ctx, sess, ev, messageID)
	}
}

func (e *Engine) pickMode(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	sess.Mode = ev.Mode
	now := e.now()
	sess.CalYear, sess.CalMonth = now.Year(), now.Month()
	sess.Selected = nil
	sess.State = StateFullDayCalendar
	e.showCalendar(sess, messageID, "")
}

func (e *Engine) navCalendar(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	sess.CalYear, sess.CalMonth = ev.Year, time.Month(ev.Month)
	e.showCalendar(sess, messageID, "")
}

func (e *Engine) pickCalendarDay(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	e.pickDay(sess, time.Date(ev.Year, time.Month(ev.Month), ev.Day, 0, 0, 0, 0, time.UTC), messageID)
}

func (e *Engine) finishSelection(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	if len(sess.Selected) == 0 {
		return
	}
	sess.State = StateFullDayConfirm
	e.dispatch.Edit(sess.ChatID, messageID, e.fullDayPreview(sess), keyboard.ConfirmCancel())
}

func (e *Engine) pickSubtype(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	sess.Subtype = ev.Subtype
	sess.State = StateHourlyDay
	e.dispatch.Edit(sess.ChatID, messageID, "Which day?",
		weekRows(keyboard.DateOnly(e.now())))
}

func (e *Engine) pickWeekDay(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	sess.Date = ev.Date
	sess.State = StateHourlySlot
	e.showSlots(sess, messageID)
}

func (e *Engine) pickSlot(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	sess.Slot = ev.Slot
	sess.State = StateHourlyName
	e.dispatch.Edit(sess.ChatID, messageID, promptName, navRows())
}

func (e *Engine) skipRejectReason(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	e.finishReject(ctx, sess, "")
}

func (e *Engine) startFlow(sess *Session, f event.Flow, messageID int) {
	sess.Reset()
	switch f {
	case event.FlowFullDay:
		sess.State = StateFullDayName
		e.dispatch.Edit(sess.ChatID, messageID, promptName, navRows())
	case event.FlowHourly:
		sess.State = StateHourlySubtype
		e.dispatch.Edit(sess.ChatID, messageID, "Arriving late or leaving early?", keyboard.Subtypes())
	case event.FlowSuggestion:
		sess.State = StateSuggestion
		e.dispatch.Edit(sess.ChatID, messageID, promptSuggestion, navRows())
	}
}

// stepBack re-enters the preceding state, dropping only the field that
// state collects.
func (e *Engine) stepBack(sess *Session, messageID int) {
	switch sess.State {
	case StateFullDayName, StateHourlySubtype, StateSuggestion:
		sess.Reset()
		e.dispatch.Edit(sess.ChatID, messageID, "What would you like to do?", keyboard.MainMenu())
	case StateFullDayReason:
		sess.State = StateFullDayName
		sess.EnteredName = ""
		e.dispatch.Edit(sess.ChatID, messageID, promptName, navRows())
	case StateFullDayMode:
		sess.State = StateFullDayReason
		sess.Reason = ""
		e.dispatch.Edit(sess.ChatID, messageID, promptReason, navRows())
	case StateFullDayCalendar:
		sess.State = StateFullDayMode
		sess.Mode = ""
		sess.Selected = nil
		e.dispatch.Edit(sess.ChatID, messageID, "How many days?", keyboard.DurationModes())
	case StateFullDayConfirm:
		sess.State = StateFullDayCalendar
		sess.Selected = nil
		e.showCalendar(sess, messageID, "")
	case StateHourlyDay:
		sess.State = StateHourlySubtype
		sess.Subtype = ""
		e.dispatch.Edit(sess.ChatID, messageID, "Arriving late or leaving early?", keyboard.Subtypes())
	case StateHourlySlot:
		sess.State = StateHourlyDay
		sess.Date = time.Time{}
		e.dispatch.Edit(sess.ChatID, messageID, "Which day?",
			weekRows(keyboard.DateOnly(e.now())))
	case StateHourlyName:
		sess.State = StateHourlySlot
		sess.Slot = ""
		e.showSlots(sess, messageID)
	case StateHourlyReason:
		sess.State = StateHourlyName
		sess.EnteredName = ""
		e.dispatch.Edit(sess.ChatID, messageID, promptName, navRows())
	case StateHourlyConfirm:
		sess.State = StateHourlyReason
		sess.Reason = ""
		e.dispatch.Edit(sess.ChatID, messageID, promptReason, navRows())
	case StateSuggestionConfirm:
		sess.State = StateSuggestion
		sess.Message = ""
		e.dispatch.Edit(sess.ChatID, messageID, promptSuggestion, navRows())
	}
}

// =============================================================================
// Full-day date selection
// =============================================================================

func (e *Engine) showCalendar(sess *Session, messageID int, warning string) {
	rows := keyboard.Calendar(sess.CalYear, sess.CalMonth, sess.Mode,
		sess.Selected, keyboard.DateOnly(e.now()))
	rows = append(rows, keyboard.NavRow())

	prompt := "Pick a date:"
	switch sess.Mode {
	case store.ModeRange:
		if len(sess.Selected) == 1 {
			prompt = "Pick the last day of your leave:"
		} else {
			prompt = "Pick the first day of your leave:"
		}
	case store.ModeMultiple:
		prompt = "Pick your days, then press Done:"
	}
	if warning != "" {
		prompt = warning + "\n" + prompt
	}
	e.dispatch.Edit(sess.ChatID, messageID, prompt, rows)
}

func (e *Engine) pickDay(sess *Session, d time.Time, messageID int) {
	// Stale keyboards can still deliver days that have since passed.
	if d.Before(keyboard.DateOnly(e.now())) {
		e.showCalendar(sess, messageID, "⚠️ That day has already passed.")
		return
	}

	switch sess.Mode {
	case store.ModeSingle:
		sess.Selected = []time.Time{d}
		sess.State = StateFullDayConfirm
		e.dispatch.Edit(sess.ChatID, messageID, e.fullDayPreview(sess), keyboard.ConfirmCancel())

	case store.ModeRange:
		if len(sess.Selected) == 0 {
			sess.Selected = []time.Time{d}
			e.showCalendar(sess, messageID, "")
			return
		}
		// End before start can arrive from a stale keyboard. Warn and
		// keep waiting for a valid end date.
		if d.Before(sess.Selected[0]) {
			e.showCalendar(sess, messageID, "⚠️ The last day cannot be before the first day.")
			return
		}
		sess.Selected = append(sess.Selected[:1], d)
		sess.State = StateFullDayConfirm
		e.dispatch.Edit(sess.ChatID, messageID, e.fullDayPreview(sess), keyboard.ConfirmCancel())

	case store.ModeMultiple:
		sess.ToggleDate(d)
		e.showCalendar(sess, messageID, "")
	}
}

// =============================================================================
// Submission
// =============================================================================

func (e *Engine) submit(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	switch sess.State {
	case StateFullDayConfirm:
		e.submitFullDay(ctx, sess, messageID)
	case StateHourlyConfirm:
		e.submitHourly(ctx, sess, messageID)
	case StateSuggestionConfirm:
		e.submitSuggestion(ctx, sess, messageID)
	}
}

func (e *Engine) submitFullDay(ctx context.Context, sess *Session, messageID int) {
	if len(sess.Selected) == 0 {
		e.fail(sess, messageID, errors.New("no dates selected"))
		return
	}
	l := store.FullDayLeave{
		ID:             uuid.NewString(),
		EmployeeName:   sess.EnteredName,
		EmployeeID:     sess.UserID,
		Reason:         sess.Reason,
		DateDescriptor: renderDates(sess.Mode, sess.Selected),
		StartDate:      sess.Selected[0],
		EndDate:        sess.Selected[len(sess.Selected)-1],
		Status:         store.StatusPending,
		CreatedAt:      e.now(),
	}
	if err := e.store.CreateFullDay(ctx, &l); err != nil {
		e.fail(sess, messageID, err)
		return
	}
	e.record("submitted", string(store.KindFullDay), l.ID, l.EmployeeID, l.DateDescriptor)

	managers, err := e.dir.Managers(ctx)
	if err != nil {
		e.logger.Error("resolving managers", "err", err)
	}
	if len(managers) == 0 {
		e.noApprover(sess, messageID, l.ID)
		return
	}
	e.dispatch.FanOut(managers,
		fmt.Sprintf("📋 Leave request from %s\nDates: %s\nReason: %s", l.EmployeeName, l.DateDescriptor, l.Reason),
		keyboard.Decision(store.KindFullDay, l.ID))

	e.dispatch.Edit(sess.ChatID, messageID,
		fmt.Sprintf("📨 Your leave request (%s) has been submitted for approval.", l.DateDescriptor), nil)
	e.logger.Info("full-day request submitted", "request", l.ID, "employee", l.EmployeeID)
	sess.Reset()
}

func (e *Engine) submitHourly(ctx context.Context, sess *Session, messageID int) {
	l := store.HourlyLeave{
		ID:             uuid.NewString(),
		EmployeeName:   sess.EnteredName,
		EmployeeID:     sess.UserID,
		Reason:         sess.Reason,
		Date:           sess.Date,
		TimeDescriptor: sess.Slot,
		Subtype:        sess.Subtype,
		Status:         store.StatusPending,
		CreatedAt:      e.now(),
	}
	if err := e.store.CreateHourly(ctx, &l); err != nil {
		e.fail(sess, messageID, err)
		return
	}
	e.record("submitted", string(store.KindHourly), l.ID, l.EmployeeID, l.TimeDescriptor)

	managers, err := e.dir.Managers(ctx)
	if err != nil {
		e.logger.Error("resolving managers", "err", err)
	}
	if len(managers) == 0 {
		e.noApprover(sess, messageID, l.ID)
		return
	}
	e.dispatch.FanOut(managers,
		fmt.Sprintf("📋 %s request from %s\nDate: %s\nTime: %s\nReason: %s",
			subtypeLabel(l.Subtype), l.EmployeeName, l.Date.Format(displayDate), l.TimeDescriptor, l.Reason),
		keyboard.Decision(store.KindHourly, l.ID))

	e.dispatch.Edit(sess.ChatID, messageID,
		fmt.Sprintf("📨 Your %s request for %s has been submitted for approval.",
			subtypeLabel(l.Subtype), l.Date.Format(displayDate)), nil)
	e.logger.Info("hourly request submitted", "request", l.ID, "employee", l.EmployeeID)
	sess.Reset()
}

// noApprover ends a submission whose record persisted but for which no
// team leader or HR user exists to decide it.
func (e *Engine) noApprover(sess *Session, messageID int, requestID string) {
	e.logger.Error("no approver configured", "request", requestID)
	e.dispatch.Edit(sess.ChatID, messageID,
		"⚠️ Your request was saved, but no approver is configured yet. Please contact HR directly.", nil)
	sess.Reset()
}

func (e *Engine) submitSuggestion(ctx context.Context, sess *Session, messageID int) {
	sg := store.Suggestion{
		ID:          uuid.NewString(),
		Message:     sess.Message,
		Sender:      sess.Name,
		SubmittedAt: e.now(),
	}
	if err := e.store.CreateSuggestion(ctx, &sg); err != nil {
		e.fail(sess, messageID, err)
		return
	}

	hr, err := e.dir.HR(ctx)
	if err != nil {
		e.logger.Error("resolving hr", "err", err)
	}
	e.dispatch.FanOut(hr, "💡 New suggestion:\n"+sg.Message, nil)
	e.dispatch.Edit(sess.ChatID, messageID, "🙏 Thank you! Your suggestion was passed to HR.", nil)
	e.record("suggestion", "", sg.ID, sess.UserID, "")
	sess.Reset()
}

func (e *Engine) record(eventType, kind, requestID, actor, detail string) {
	if e.audit == nil {
		return
	}
	err := e.audit.Append(audit.Event{
		Time:      e.now(),
		Type:      eventType,
		Kind:      kind,
		RequestID: requestID,
		Actor:     actor,
		Detail:    detail,
	})
	if err != nil {
		e.logger.Warn("writing audit event failed", "err", err)
	}
}

func (e *Engine) fail(sess *Session, messageID int, err error) {
	e.logger.Error("request submission failed", "user", sess.UserID, "err", err)
	e.dispatch.Edit(sess.ChatID, messageID,
		"Something went wrong submitting your request. Please try again with /start.", nil)
	sess.Reset()
}

// =============================================================================
// Approver decisions
// =============================================================================

func (e *Engine) handleDecision(ctx context.Context, sess *Session, ev event.Event, messageID int) {
	if ev.Action == event.ActionReject {
		// Collect the reason over text before applying the decision.
		sess.State = StateRejectReason
		sess.Pending = &PendingDecision{Kind: ev.Kind, RequestID: ev.RequestID, MessageID: messageID}
		e.dispatch.Send(sess.ChatID, "Reply with the rejection reason, or skip it.", keyboard.SkipReason())
		return
	}

	err := e.approvals.Decide(ctx, approval.Decision{
		Kind:         ev.Kind,
		RequestID:    ev.RequestID,
		Action:       event.ActionApprove,
		ApproverID:   sess.UserID,
		ApproverName: e.approverName(ctx, sess),
		ChatID:       sess.ChatID,
		MessageID:    messageID,
	})
	e.reportDecisionError(ctx, sess, ev.Kind, ev.RequestID, err)
}

func (e *Engine) finishReject(ctx context.Context, sess *Session, reason string) {
	pending := sess.Pending
	sess.Reset()
	if pending == nil {
		return
	}
	err := e.approvals.Decide(ctx, approval.Decision{
		Kind:            pending.Kind,
		RequestID:       pending.RequestID,
		Action:          event.ActionReject,
		RejectionReason: reason,
		ApproverID:      sess.UserID,
		ApproverName:    e.approverName(ctx, sess),
		ChatID:          sess.ChatID,
		MessageID:       pending.MessageID,
	})
	e.reportDecisionError(ctx, sess, pending.Kind, pending.RequestID, err)
}

func (e *Engine) reportDecisionError(ctx context.Context, sess *Session, kind store.Kind, requestID string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		e.dispatch.Send(sess.ChatID, "This request does not exist anymore.", nil)
	case errors.Is(err, approval.ErrAlreadyDecided):
		msg := "This request was already decided by someone else."
		if status, ok := e.currentStatus(ctx, kind, requestID); ok {
			msg = fmt.Sprintf("This request was already decided by someone else (current status: %s).", status)
		}
		e.dispatch.Send(sess.ChatID, msg, nil)
	default:
		e.logger.Error("applying decision", "approver", sess.UserID, "err", err)
		e.dispatch.Send(sess.ChatID, "Could not apply the decision. Please try again.", nil)
	}
}

func (e *Engine) currentStatus(ctx context.Context, kind store.Kind, id string) (store.Status, bool) {
	switch kind {
	case store.KindFullDay:
		if l, err := e.store.GetFullDay(ctx, id); err == nil {
			return l.Status, true
		}
	case store.KindHourly:
		if l, err := e.store.GetHourly(ctx, id); err == nil {
			return l.Status, true
		}
	}
	return "", false
}

func (e *Engine) approverName(ctx context.Context, sess *Session) string {
	if u, err := e.dir.Lookup(ctx, sess.UserID); err == nil && u.Name != "" {
		return u.Name
	}
	return sess.Name
}

// =============================================================================
// Rendering helpers
// =============================================================================

func (e *Engine) fullDayPreview(sess *Session) string {
	return fmt.Sprintf("Please confirm your leave request:\nName: %s\nDates: %s\nReason: %s",
		sess.EnteredName, renderDates(sess.Mode, sess.Selected), sess.Reason)
}

func (e *Engine) hourlyPreview(sess *Session) string {
	return fmt.Sprintf("Please confirm your %s request:\nName: %s\nDate: %s\nTime: %s\nReason: %s",
		subtypeLabel(sess.Subtype), sess.EnteredName, sess.Date.Format(displayDate), sess.Slot, sess.Reason)
}

func (e *Engine) showSlots(sess *Session, messageID int) {
	rows, err := keyboard.TimeSlots(sess.Subtype)
	if err != nil {
		e.fail(sess, messageID, err)
		return
	}
	rows = append(rows, keyboard.NavRow())
	prompt := "Until what time?"
	if sess.Subtype == store.SubtypeEarly {
		prompt = "From what time?"
	}
	e.dispatch.Edit(sess.ChatID, messageID, prompt, rows)
}

func weekRows(start time.Time) [][]keyboard.Button {
	rows := make([][]keyboard.Button, 0, 8)
	for _, b := range keyboard.Week(start) {
		rows = append(rows, []keyboard.Button{b})
	}
	return append(rows, keyboard.NavRow())
}

// renderDates renders the selection for display and persistence.
// Single: "10/03/2025". Range: "from 10/03/2025 to 12/03/2025".
// Multiple: ascending, comma separated.
func renderDates(mode store.DurationMode, selected []time.Time) string {
	switch mode {
	case store.ModeRange:
		if len(selected) >= 2 {
			return fmt.Sprintf("from %s to %s",
				selected[0].Format(displayDate), selected[len(selected)-1].Format(displayDate))
		}
	case store.ModeMultiple:
		parts := make([]string, len(selected))
		for i, d := range selected {
			parts[i] = d.Format(displayDate)
		}
		return strings.Join(parts, ", ")
	}
	if len(selected) == 0 {
		return ""
	}
	return selected[0].Format(displayDate)
}

func subtypeLabel(s store.Subtype) string {
	if s == store.SubtypeEarly {
		return "early departure"
	}
	return "late arrival"
}
