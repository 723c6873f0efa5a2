// Package reminder reminds people about tomorrow's approved leaves on a
// cron schedule.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/adhocore/gronx"

	"github.com/myslide/leavebot/internal/directory"
	"github.com/myslide/leavebot/internal/notify"
	"github.com/myslide/leavebot/internal/store"
)

// Service fires on a cron expression and sends next-day reminders:
// employees hear about their own hourly permissions, managers get the
// full-day absence roster.
type Service struct {
	store    *store.Store
	dir      *directory.Directory
	dispatch *notify.Dispatcher
	expr     string
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	stopped  chan struct{}
}

func NewService(s *store.Store, d *directory.Directory, n *notify.Dispatcher,
	cronExpr string, logger *slog.Logger) (*Service, error) {
	if !gronx.New().IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid reminder schedule: %q", cronExpr)
	}
	return &Service{
		store:    s,
		dir:      d,
		dispatch: n,
		expr:     cronExpr,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start begins the polling loop.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.loop()
	s.logger.Info("reminder service started", "schedule", s.expr)
}

// Stop shuts the loop down and waits for it.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.stopped
	s.logger.Info("reminder service stopped")
}

func (s *Service) loop() {
	defer close(s.stopped)

	for {
		next, err := gronx.NextTickAfter(s.expr, s.now(), false)
		if err != nil {
			s.logger.Error("computing next reminder tick", "err", err)
			return
		}
		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.RemindTomorrow(context.Background())
		}
	}
}

// RemindTomorrow sends every reminder due for the day after now.
func (s *Service) RemindTomorrow(ctx context.Context) {
	tomorrow := dateOnly(s.now().AddDate(0, 0, 1))
	s.remindHourly(ctx, tomorrow)
	s.remindFullDay(ctx, tomorrow)
}

func (s *Service) remindHourly(ctx context.Context, day time.Time) {
	leaves, err := s.store.ListHourlyOn(ctx, day)
	if err != nil {
		s.logger.Error("loading tomorrow's hourly leaves", "err", err)
		return
	}
	for _, l := range leaves {
		what := "arriving late"
		if l.Subtype == store.SubtypeEarly {
			what = "leaving early"
		}
		s.dispatch.Send(l.EmployeeID,
			fmt.Sprintf("⏰ Reminder: tomorrow (%s) you are %s — %s.",
				day.Format("02/01/2006"), what, l.TimeDescriptor), nil)
	}
	if len(leaves) > 0 {
		s.logger.Info("hourly reminders sent", "count", len(leaves), "day", day.Format("2006-01-02"))
	}
}

func (s *Service) remindFullDay(ctx context.Context, day time.Time) {
	leaves, err := s.store.ListFullDayStarting(ctx, day)
	if err != nil {
		s.logger.Error("loading tomorrow's full-day leaves", "err", err)
		return
	}
	// Legacy rows may predate the structured bounds; fall back to the
	// display descriptor for those.
	if extra, err := s.store.ListFullDay(ctx, store.StatusApproved); err == nil {
		seen := map[string]bool{}
		for _, l := range leaves {
			seen[l.ID] = true
		}
		for _, l := range extra {
			if seen[l.ID] || !l.StartDate.IsZero() {
				continue
			}
			start, err := descriptorStart(l.DateDescriptor)
			if err != nil {
				s.logger.Warn("unparsable date descriptor", "request", l.ID, "descriptor", l.DateDescriptor)
				continue
			}
			if start.Equal(day) {
				leaves = append(leaves, l)
			}
		}
	}
	if len(leaves) == 0 {
		return
	}

	names := make([]string, len(leaves))
	for i, l := range leaves {
		names[i] = l.EmployeeName
	}
	managers, err := s.dir.Managers(ctx)
	if err != nil {
		s.logger.Error("resolving managers for reminders", "err", err)
		return
	}
	s.dispatch.FanOut(managers,
		fmt.Sprintf("📅 On leave tomorrow (%s): %s.",
			day.Format("02/01/2006"), strings.Join(names, ", ")), nil)
	s.logger.Info("full-day reminder sent", "absent", len(leaves), "day", day.Format("2006-01-02"))
}

// descriptorStart extracts the first leave day from a display
// descriptor. It understands the three rendered forms: a single date, a
// "from X to Y" range (the X), and a comma-separated list (the earliest
// entry).
func descriptorStart(desc string) (time.Time, error) {
	const layout = "02/01/2006"
	desc = strings.TrimSpace(desc)

	if strings.HasPrefix(desc, "from ") {
		rest := strings.TrimPrefix(desc, "from ")
		parts := strings.SplitN(rest, " to ", 2)
		if len(parts) != 2 {
			return time.Time{}, fmt.Errorf("malformed range descriptor %q", desc)
		}
		return time.Parse(layout, strings.TrimSpace(parts[0]))
	}

	var earliest time.Time
	for _, part := range strings.Split(desc, ",") {
		d, err := time.Parse(layout, strings.TrimSpace(part))
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed date descriptor %q", desc)
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	if earliest.IsZero() {
		return time.Time{}, fmt.Errorf("empty date descriptor")
	}
	return earliest, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
