package approval

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/myslide/leavebot/internal/bus"
	"github.com/myslide/leavebot/internal/directory"
	"github.com/myslide/leavebot/internal/event"
	"github.com/myslide/leavebot/internal/notify"
	"github.com/myslide/leavebot/internal/store"
)

type fixture struct {
	store *store.Store
	bus   *bus.MessageBus
	ctrl  *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "approval.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	dir := directory.New(s)
	err = dir.Seed(ctx, []store.User{
		{ID: "1001", Name: "Dana", Role: store.RoleEmployee},
		{ID: "2001", Name: "Lena", Role: store.RoleTeamLeader},
		{ID: "2002", Name: "Sami", Role: store.RoleTeamLeader},
		{ID: "3001", Name: "Hiba", Role: store.RoleHR},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := bus.NewMessageBus(32)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	dispatch := notify.NewDispatcher(b, "telegram", logger)
	return &fixture{
		store: s,
		bus:   b,
		ctrl:  NewController(s, dir, dispatch, logger),
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (f *fixture) drain(t *testing.T) []*bus.OutboundMessage {
	t.Helper()
	var out []*bus.OutboundMessage
	for {
		select {
		case m := <-f.bus.Outbound():
			out = append(out, m)
		default:
			return out
		}
	}
}

func pendingFullDay(t *testing.T, f *fixture) store.FullDayLeave {
	t.Helper()
	l := store.FullDayLeave{
		ID:             uuid.NewString(),
		EmployeeName:   "Dana",
		EmployeeID:     "1001",
		Reason:         "family visit",
		DateDescriptor: "10/03/2025",
		StartDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:         store.StatusPending,
		CreatedAt:      time.Now(),
	}
	if err := f.store.CreateFullDay(context.Background(), &l); err != nil {
		t.Fatalf("create leave: %v", err)
	}
	return l
}

func TestDecide_ApproveNotifiesEmployeeAndLeaders(t *testing.T) {
	f := newFixture(t)
	l := pendingFullDay(t, f)

	err := f.ctrl.Decide(context.Background(), Decision{
		Kind:         store.KindFullDay,
		RequestID:    l.ID,
		Action:       event.ActionApprove,
		ApproverID:   "3001",
		ApproverName: "Hiba",
		ChatID:       "3001",
		MessageID:    42,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	msgs := f.drain(t)
	// employee verdict + two team leaders + the approver card edit
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}

	byChat := map[string][]*bus.OutboundMessage{}
	for _, m := range msgs {
		byChat[m.ChatID] = append(byChat[m.ChatID], m)
	}
	if len(byChat["1001"]) != 1 || !strings.Contains(byChat["1001"][0].Content, "approved") {
		t.Fatalf("employee verdict missing or wrong: %+v", byChat["1001"])
	}
	for _, leader := range []string{"2001", "2002"} {
		if len(byChat[leader]) != 1 || !strings.Contains(byChat[leader][0].Content, "Dana") {
			t.Fatalf("leader %s announcement missing: %+v", leader, byChat[leader])
		}
	}
	edit := byChat["3001"][0]
	if edit.EditID != 42 || !strings.Contains(edit.Content, "Approved by Hiba") {
		t.Fatalf("approver card edit wrong: %+v", edit)
	}
}

func TestDecide_RejectSkipsLeaderFanOut(t *testing.T) {
	f := newFixture(t)
	l := pendingFullDay(t, f)

	err := f.ctrl.Decide(context.Background(), Decision{
		Kind:            store.KindFullDay,
		RequestID:       l.ID,
		Action:          event.ActionReject,
		RejectionReason: "coverage gap",
		ApproverID:      "2001",
		ApproverName:    "Lena",
		ChatID:          "2001",
		MessageID:       7,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	msgs := f.drain(t)
	// employee verdict + card edit only, no leader announcements
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %+v", len(msgs), msgs)
	}
	var verdict string
	for _, m := range msgs {
		if m.ChatID == "1001" {
			verdict = m.Content
		}
	}
	if !strings.Contains(verdict, "rejected") || !strings.Contains(verdict, "coverage gap") {
		t.Fatalf("employee rejection verdict wrong: %q", verdict)
	}
}

func TestDecide_SecondDecisionIsNoOp(t *testing.T) {
	f := newFixture(t)
	l := pendingFullDay(t, f)
	ctx := context.Background()

	first := Decision{
		Kind: store.KindFullDay, RequestID: l.ID,
		Action: event.ActionApprove, ApproverID: "2001", ApproverName: "Lena",
		ChatID: "2001", MessageID: 1,
	}
	if err := f.ctrl.Decide(ctx, first); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	f.drain(t)

	second := Decision{
		Kind: store.KindFullDay, RequestID: l.ID,
		Action: event.ActionReject, RejectionReason: "no", ApproverID: "3001", ApproverName: "Hiba",
		ChatID: "3001", MessageID: 2,
	}
	if err := f.ctrl.Decide(ctx, second); err != ErrAlreadyDecided {
		t.Fatalf("second decide = %v, want ErrAlreadyDecided", err)
	}
	if msgs := f.drain(t); len(msgs) != 0 {
		t.Fatalf("losing decision produced %d messages, want 0", len(msgs))
	}

	got, err := f.store.GetFullDay(ctx, l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != store.StatusApproved || got.DecidedBy != "2001" {
		t.Fatalf("record mutated by losing decision: %+v", got)
	}
}

func TestDecide_HourlyApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l := store.HourlyLeave{
		ID:             uuid.NewString(),
		EmployeeName:   "Dana",
		EmployeeID:     "1001",
		Reason:         "clinic appointment",
		Date:           time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		TimeDescriptor: "10:30 AM",
		Subtype:        store.SubtypeLate,
		Status:         store.StatusPending,
		CreatedAt:      time.Now(),
	}
	if err := f.store.CreateHourly(ctx, &l); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := f.ctrl.Decide(ctx, Decision{
		Kind: store.KindHourly, RequestID: l.ID,
		Action: event.ActionApprove, ApproverID: "3001", ApproverName: "Hiba",
		ChatID: "3001", MessageID: 9,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	var leaderNote string
	for _, m := range f.drain(t) {
		if m.ChatID == "2001" {
			leaderNote = m.Content
		}
	}
	if !strings.Contains(leaderNote, "late arrival") || !strings.Contains(leaderNote, "11/03/2025") {
		t.Fatalf("leader announcement wrong: %q", leaderNote)
	}
}

func TestDecide_UnknownRequest(t *testing.T) {
	f := newFixture(t)
	err := f.ctrl.Decide(context.Background(), Decision{
		Kind: store.KindFullDay, RequestID: uuid.NewString(),
		Action: event.ActionApprove, ApproverID: "3001",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown request")
	}
}
