package models

import "time"

// RequestStatus enumerates the visitor request lifecycle states.
// Transitions are monotonic: pending → approved|denied, approved → completed.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusDenied    RequestStatus = "denied"
	StatusCompleted RequestStatus = "completed"
)

// VisitorRequest is one visit attempt, from guard submission to
// completion or denial.
type VisitorRequest struct {
	ID            string
	VisitorName   string
	VehicleType   string
	VehicleNumber string
	Purpose       string
	FlatID        string
	PhotoURL      string
	GuardID       string
	Status        RequestStatus
	CreatedAt     time.Time
	ApprovedAt    *time.Time
	DeniedAt      *time.Time
	EntryTime     *time.Time
	ApprovedBy    *string
}

// DayStats are the aggregate counters backing the admin dashboard for a
// single calendar day.
type DayStats struct {
	TodayVisitors    int
	PendingApprovals int
	ApprovedToday    int
	DeniedToday      int
}

// RequestFilter narrows the admin listing. Zero values mean "no filter".
type RequestFilter struct {
	Wing string
	Date *time.Time
}
