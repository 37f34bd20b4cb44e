package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const LeaveDecidedEventType = "leave.decided"

// LeaveDecidedEvent is published when an administrator approves or
// rejects a leave application. Balance consumption is deliberately not
// performed inline; downstream consumers act on this event instead.
type LeaveDecidedEvent struct {
	EventType     string    `json:"event_type"`
	ApplicationID string    `json:"application_id"`
	EmployeeID    string    `json:"employee_id"`
	LeaveTypeID   string    `json:"leave_type_id"`
	Status        string    `json:"status"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	TotalDays     int       `json:"total_days"`
	DecidedBy     string    `json:"decided_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
