package reminder

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
	"github.com/myslide/leavebot/internal/notify"
	"github.com/myslide/leavebot/internal/store"
)

type fixture struct {
	store *store.Store
	bus   *bus.MessageBus
	svc   *Service
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "reminder.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	dir := directory.New(s)
	err = dir.Seed(ctx, []store.User{
		{ID: "1001", Name: "Dana", Role: store.RoleEmployee},
		{ID: "2001", Name: "Lena", Role: store.RoleTeamLeader},
		{ID: "3001", Name: "Hiba", Role: store.RoleHR},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := bus.NewMessageBus(32)
	logger := slog.New(slog.NewTextHandler(logWriter{t}, nil))
	svc, err := NewService(s, dir, notify.NewDispatcher(b, "telegram", logger), "0 9 * * *", logger)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	f := &fixture{store: s, bus: b, svc: svc, now: time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)}
	svc.now = func() time.Time { return f.now }
	return f
}

type logWriter struct{ t *testing.T }

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (f *fixture) drain() []*bus.OutboundMessage {
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

func approvedFullDay(t *testing.T, f *fixture, start, end time.Time) {
	t.Helper()
	l := store.FullDayLeave{
		ID:             uuid.NewString(),
		EmployeeName:   "Dana",
		EmployeeID:     "1001",
		DateDescriptor: "from " + start.Format("02/01/2006") + " to " + end.Format("02/01/2006"),
		StartDate:      start,
		EndDate:        end,
		Status:         store.StatusPending,
		CreatedAt:      f.now,
	}
	ctx := context.Background()
	if err := f.store.CreateFullDay(ctx, &l); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.store.Decide(ctx, store.KindFullDay, l.ID, store.StatusApproved, "", "3001"); err != nil {
		t.Fatalf("approve: %v", err)
	}
}

func TestNewService_RejectsBadSchedule(t *testing.T) {
	if _, err := NewService(nil, nil, nil, "not a cron", slog.Default()); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestRemindTomorrow_FullDayGoesToManagers(t *testing.T) {
	f := newFixture(t)
	tomorrow := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	approvedFullDay(t, f, tomorrow, tomorrow.AddDate(0, 0, 2))

	f.svc.RemindTomorrow(context.Background())

	var chats []string
	for _, m := range f.drain() {
		if !strings.Contains(m.Content, "Dana") || !strings.Contains(m.Content, "10/03/2025") {
			t.Fatalf("reminder text wrong: %q", m.Content)
		}
		chats = append(chats, m.ChatID)
	}
	if len(chats) != 2 {
		t.Fatalf("reminded %v, want both managers", chats)
	}
}

func TestRemindTomorrow_SkipsPendingAndOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Pending leave covering tomorrow: no reminder.
	tomorrow := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	l := store.FullDayLeave{
		ID: uuid.NewString(), EmployeeName: "Dana", EmployeeID: "1001",
		DateDescriptor: "10/03/2025", StartDate: tomorrow, EndDate: tomorrow,
		Status: store.StatusPending, CreatedAt: f.now,
	}
	if err := f.store.CreateFullDay(ctx, &l); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Approved leave next week: does not start tomorrow.
	approvedFullDay(t, f, tomorrow.AddDate(0, 0, 7), tomorrow.AddDate(0, 0, 8))
	// Approved leave already underway: the reminder fired when it began.
	approvedFullDay(t, f, tomorrow.AddDate(0, 0, -2), tomorrow.AddDate(0, 0, 2))

	f.svc.RemindTomorrow(ctx)
	if msgs := f.drain(); len(msgs) != 0 {
		t.Fatalf("got %d reminders, want 0: %+v", len(msgs), msgs)
	}
}

func TestRemindTomorrow_LegacyRowParsesDescriptor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A row without structured bounds falls back to descriptor parsing.
	l := store.FullDayLeave{
		ID: uuid.NewString(), EmployeeName: "Dana", EmployeeID: "1001",
		DateDescriptor: "from 10/03/2025 to 12/03/2025",
		Status:         store.StatusPending, CreatedAt: f.now,
	}
	if err := f.store.CreateFullDay(ctx, &l); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.store.Decide(ctx, store.KindFullDay, l.ID, store.StatusApproved, "", "3001"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	f.svc.RemindTomorrow(ctx)
	msgs := f.drain()
	if len(msgs) != 2 {
		t.Fatalf("got %d reminders, want both managers: %+v", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0].Content, "Dana") {
		t.Fatalf("reminder text wrong: %q", msgs[0].Content)
	}
}

func TestRemindTomorrow_HourlyGoesToEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l := store.HourlyLeave{
		ID: uuid.NewString(), EmployeeName: "Dana", EmployeeID: "1001",
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeDescriptor: "10:30 AM", Subtype: store.SubtypeLate,
		Status: store.StatusPending, CreatedAt: f.now,
	}
	if err := f.store.CreateHourly(ctx, &l); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.store.Decide(ctx, store.KindHourly, l.ID, store.StatusApproved, "", "3001"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	f.svc.RemindTomorrow(ctx)
	msgs := f.drain()
	if len(msgs) != 1 || msgs[0].ChatID != "1001" {
		t.Fatalf("hourly reminder misrouted: %+v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "arriving late") || !strings.Contains(msgs[0].Content, "10:30 AM") {
		t.Fatalf("hourly reminder text wrong: %q", msgs[0].Content)
	}
}

func TestDescriptorStart_AllThreeForms(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		desc    string
		want    time.Time
		wantErr bool
	}{
		{desc: "10/03/2025", want: day(10)},
		{desc: "from 09/03/2025 to 12/03/2025", want: day(9)},
		{desc: "14/03/2025, 08/03/2025, 10/03/2025", want: day(8)},
		{desc: "not a date", wantErr: true},
		{desc: "from garbage to 12/03/2025", wantErr: true},
		{desc: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := descriptorStart(tc.desc)
		if tc.wantErr {
			if err == nil {
				t.Errorf("descriptorStart(%q): expected error, got %v", tc.desc, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("descriptorStart(%q): %v", tc.desc, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("descriptorStart(%q) = %v, want %v", tc.desc, got, tc.want)
		}
	}
}
