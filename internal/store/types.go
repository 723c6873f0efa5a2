package store

import "time"

// Kind identifies which leave collection a record lives in.
type Kind string

const (
	KindFullDay Kind = "fullday"
	KindHourly  Kind = "hourly"
)

// Status is the lifecycle state of a leave request.
// Transitions are monotonic: pending -> approved | rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// DurationMode is how a full-day request picks its dates.
type DurationMode string

const (
	ModeSingle   DurationMode = "single"
	ModeRange    DurationMode = "range"
	ModeMultiple DurationMode = "multiple"
)

// Subtype is the hourly permission variant.
type Subtype string

const (
	SubtypeLate  Subtype = "late"  // late arrival
	SubtypeEarly Subtype = "early" // early departure
)

// Role classifies a directory principal.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleTeamLeader Role = "team_leader"
	RoleHR         Role = "hr"
)

// FullDayLeave is a persisted full-day leave request.
// StartDate/EndDate are the structured bounds of the request;
// DateDescriptor is the rendered display form only.
type FullDayLeave struct {
	ID              string
	EmployeeName    string
	EmployeeID      string
	Reason          string
	DateDescriptor  string
	StartDate       time.Time
	EndDate         time.Time
	Status          Status
	RejectionReason string
	DecidedBy       string
	CreatedAt       time.Time
}

// HourlyLeave is a persisted hourly permission request.
type HourlyLeave struct {
	ID              string
	EmployeeName    string
	EmployeeID      string
	Reason          string
	Date            time.Time
	TimeDescriptor  string
	Subtype         Subtype
	Status          Status
	RejectionReason string
	DecidedBy       string
	CreatedAt       time.Time
}

// Suggestion is a persisted free-form suggestion; no lifecycle beyond creation.
type Suggestion struct {
	ID          string
	Message     string
	Sender      string
	SubmittedAt time.Time
}

// User is a directory principal.
type User struct {
	ID   string
	Name string
	Role Role
}
