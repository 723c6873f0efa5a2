package flow

import (
	"sort"
	"sync"
	"time"

	"github.com/myslide/leavebot/internal/store"
)

// State names the step a conversation is waiting on.
type State string

const (
	StateIdle State = "idle"

	StateFullDayName     State = "fullday_name"
	StateFullDayReason   State = "fullday_reason"
	StateFullDayMode     State = "fullday_mode"
	StateFullDayCalendar State = "fullday_calendar"
	StateFullDayConfirm  State = "fullday_confirm"

	StateHourlySubtype State = "hourly_subtype"
	StateHourlyDay     State = "hourly_day"
	StateHourlySlot    State = "hourly_slot"
	StateHourlyName    State = "hourly_name"
	StateHourlyReason  State = "hourly_reason"
	StateHourlyConfirm State = "hourly_confirm"

	StateSuggestion        State = "suggestion"
	StateSuggestionConfirm State = "suggestion_confirm"

	StateRejectReason State = "reject_reason"
)

// PendingDecision holds a reject that is waiting for its reason.
type PendingDecision struct {
	Kind      store.Kind
	RequestID string
	MessageID int
}

// Session is one user's in-flight conversation.
type Session struct {
	UserID string
	ChatID string
	Name   string // display name reported by the transport
	State  State

	// collected fields
	EnteredName string
	Reason      string
	Message     string

	// full-day selection
	Mode     store.DurationMode
	CalYear  int
	CalMonth time.Month
	Selected []time.Time

	// hourly selection
	Subtype store.Subtype
	Date    time.Time
	Slot    string

	Pending *PendingDecision

	UpdatedAt time.Time
}

// Reset clears everything but the identity fields.
func (s *Session) Reset() {
	s.State = StateIdle
	s.EnteredName = ""
	s.Reason = ""
	s.Message = ""
	s.Mode = ""
	s.CalYear = 0
	s.CalMonth = 0
	s.Selected = nil
	s.Subtype = ""
	s.Date = time.Time{}
	s.Slot = ""
	s.Pending = nil
}

// ToggleDate adds the date to the selection, or removes it when already
// present. Selection order stays ascending.
func (s *Session) ToggleDate(d time.Time) {
	for i, sel := range s.Selected {
		if sel.Equal(d) {
			s.Selected = append(s.Selected[:i], s.Selected[i+1:]...)
			return
		}
	}
	s.Selected = append(s.Selected, d)
	sort.Slice(s.Selected, func(i, j int) bool { return s.Selected[i].Before(s.Selected[j]) })
}

// Sessions manages per-user conversations with idle expiry.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessions creates a session manager expiring conversations idle
// longer than ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate gets or creates the session for a user. An expired session
// comes back reset rather than resumed mid-flow.
func (m *Sessions) GetOrCreate(userID, chatID, name string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	sess, ok := m.sessions[userID]
	if ok && now.Sub(sess.UpdatedAt) > m.ttl {
		sess.Reset()
	}
	if !ok {
		sess = &Session{UserID: userID, State: StateIdle}
		m.sessions[userID] = sess
	}
	sess.ChatID = chatID
	if name != "" {
		sess.Name = name
	}
	sess.UpdatedAt = now
	return sess
}

// Sweep drops sessions idle longer than the TTL and returns how many
// were removed.
func (m *Sessions) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, sess := range m.sessions {
		if now.Sub(sess.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
