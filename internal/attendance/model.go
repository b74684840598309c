package attendance

import "time"

// Status is the approval state of an attendance entry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid returns true when the status is a supported value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// SubjectStaff is the subject type for staff self clock-ins.
const SubjectStaff = "staff"

// Entry is one clock-in/clock-out record.
type Entry struct {
	ID          int64      `json:"id"`
	SubjectType string     `json:"subject_type"`
	SubjectID   int64      `json:"subject_id"`
	ClockIn     time.Time  `json:"clock_in"`
	ClockOut    *time.Time `json:"clock_out,omitempty"`
	Status      Status     `json:"status"`
	RecordedBy  int64      `json:"recorded_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Open reports whether the entry still lacks a clock-out.
func (e Entry) Open() bool {
	return e.ClockOut == nil
}

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	SubjectID int64
	Status    Status
	Limit     int
	Offset    int
}
