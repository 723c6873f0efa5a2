// Package approval applies manager decisions to pending leave requests
// and pushes the resulting notifications.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myslide/leavebot/internal/audit"
	"github.com/myslide/leavebot/internal/directory"
	"github.com/myslide/leavebot/internal/event"
	"github.com/myslide/leavebot/internal/notify"
	"github.com/myslide/leavebot/internal/store"
)

// ErrAlreadyDecided reports that another approver acted first.
var ErrAlreadyDecided = store.ErrAlreadyDecided

// Controller resolves approve/reject presses. The store transition is
// conditional, so only the first decision for a request takes effect.
type Controller struct {
	store    *store.Store
	dir      *directory.Directory
	dispatch *notify.Dispatcher
	audit    *audit.Writer
	logger   *slog.Logger
}

func NewController(s *store.Store, d *directory.Directory, n *notify.Dispatcher, logger *slog.Logger) *Controller {
	return &Controller{store: s, dir: d, dispatch: n, logger: logger}
}

// SetAudit attaches an audit trail for applied decisions.
func (c *Controller) SetAudit(w *audit.Writer) { c.audit = w }

// Decision carries everything a single approver press needs.
type Decision struct {
	Kind            store.Kind
	RequestID       string
	Action          event.Action
	RejectionReason string
	ApproverID      string
	ApproverName    string
	ChatID          string // approver's chat, for the in-place edit
	MessageID       int    // message holding the decision keyboard
}

// Decide applies d. On success the employee is notified, team leaders
// hear about approvals, and the approver's card is rewritten to show
// the outcome. ErrAlreadyDecided means a racing approver won; callers
// should tell the presser and change nothing else.
func (c *Controller) Decide(ctx context.Context, d Decision) error {
	status := store.StatusApproved
	if d.Action == event.ActionReject {
		status = store.StatusRejected
	}

	err := c.store.Decide(ctx, d.Kind, d.RequestID, status, d.RejectionReason, d.ApproverID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyDecided) {
			c.logger.Info("decision lost the race",
				"request", d.RequestID, "approver", d.ApproverID)
			return ErrAlreadyDecided
		}
		return err
	}

	c.record(d, status)

	switch d.Kind {
	case store.KindFullDay:
		return c.afterFullDay(ctx, d, status)
	case store.KindHourly:
		return c.afterHourly(ctx, d, status)
	}
	return fmt.Errorf("unknown request kind: %q", d.Kind)
}

func (c *Controller) afterFullDay(ctx context.Context, d Decision, status store.Status) error {
	l, err := c.store.GetFullDay(ctx, d.RequestID)
	if err != nil {
		return fmt.Errorf("load decided request: %w", err)
	}

	c.dispatch.Send(l.EmployeeID, employeeVerdict("leave request", l.DateDescriptor, status, d.RejectionReason), nil)

	if status == store.StatusApproved {
		leaders, err := c.dir.TeamLeaders(ctx)
		if err != nil {
			return fmt.Errorf("resolve team leaders: %w", err)
		}
		c.dispatch.FanOut(leaders,
			fmt.Sprintf("📢 %s will be on leave %s.", l.EmployeeName, l.DateDescriptor), nil)
	}

	c.editCard(d, fullDaySummary(l), status)
	c.logger.Info("full-day request decided",
		"request", l.ID, "status", status, "approver", d.ApproverID)
	return nil
}

func (c *Controller) afterHourly(ctx context.Context, d Decision, status store.Status) error {
	l, err := c.store.GetHourly(ctx, d.RequestID)
	if err != nil {
		return fmt.Errorf("load decided request: %w", err)
	}

	what := fmt.Sprintf("hourly permission on %s", l.Date.Format("02/01/2006"))
	c.dispatch.Send(l.EmployeeID, employeeVerdict(what, l.TimeDescriptor, status, d.RejectionReason), nil)

	if status == store.StatusApproved {
		leaders, err := c.dir.TeamLeaders(ctx)
		if err != nil {
			return fmt.Errorf("resolve team leaders: %w", err)
		}
		c.dispatch.FanOut(leaders,
			fmt.Sprintf("📢 %s has %s on %s (%s).",
				l.EmployeeName, subtypeLabel(l.Subtype), l.Date.Format("02/01/2006"), l.TimeDescriptor), nil)
	}

	c.editCard(d, hourlySummary(l), status)
	c.logger.Info("hourly request decided",
		"request", l.ID, "status", status, "approver", d.ApproverID)
	return nil
}

// editCard rewrites the approver's request card so the buttons disappear
// and the outcome is visible in the thread.
func (c *Controller) editCard(d Decision, summary string, status store.Status) {
	if d.MessageID == 0 {
		return
	}
	verdict := "✅ Approved"
	if status == store.StatusRejected {
		verdict = "❌ Rejected"
	}
	c.dispatch.Edit(d.ChatID, d.MessageID,
		fmt.Sprintf("%s\n\n%s by %s", summary, verdict, d.ApproverName), nil)
}

func (c *Controller) record(d Decision, status store.Status) {
	if c.audit == nil {
		return
	}
	err := c.audit.Append(audit.Event{
		Time:      time.Now(),
		Type:      string(status),
		Kind:      string(d.Kind),
		RequestID: d.RequestID,
		Actor:     d.ApproverID,
		Detail:    d.RejectionReason,
	})
	if err != nil {
		c.logger.Warn("writing audit event failed", "err", err)
	}
}

func employeeVerdict(what, detail string, status store.Status, reason string) string {
	if status == store.StatusApproved {
		return fmt.Sprintf("✅ Your %s (%s) has been approved.", what, detail)
	}
	msg := fmt.Sprintf("❌ Your %s (%s) has been rejected.", what, detail)
	if reason != "" {
		msg += "\nReason: " + reason
	}
	return msg
}

func fullDaySummary(l store.FullDayLeave) string {
	return fmt.Sprintf("📋 Leave request from %s\nDates: %s\nReason: %s",
		l.EmployeeName, l.DateDescriptor, l.Reason)
}

func hourlySummary(l store.HourlyLeave) string {
	return fmt.Sprintf("📋 %s request from %s\nDate: %s\nTime: %s\nReason: %s",
		subtypeLabel(l.Subtype), l.EmployeeName, l.Date.Format("02/01/2006"), l.TimeDescriptor, l.Reason)
}

func subtypeLabel(s store.Subtype) string {
	if s == store.SubtypeEarly {
		return "early departure"
	}
	return "late arrival"
}
