package models

import "time"

// Status is the attendance state of one student in one week. The store keeps
// it as a plain string; these are the only values the API produces.
type Status string

const (
	StatusPresent Status = "출석"
	StatusLate    Status = "지각"
	StatusAbsent  Status = "결석"
)

// DateLayout is the calendar date format of AttendanceRecord.Date.
const DateLayout = "2006-01-02"

// AttendanceRecord is unique per (StudentID, WeekID) through upserts, not
// through a store constraint.
type AttendanceRecord struct {
	ID        string    `json:"_id,omitempty" bson:"_id,omitempty"`
	StudentID string    `json:"student_id" bson:"student_id"`
	WeekID    int       `json:"week_id" bson:"week_id"`
	Status    Status    `json:"status" bson:"status"`
	Date      string    `json:"date" bson:"date"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// CheckAttendanceRequest is the body of POST /api/attendance/check. Nil
// WeekID and Status fall back to week 1 and StatusPresent.
type CheckAttendanceRequest struct {
	StudentID string  `json:"student_id" binding:"required"`
	WeekID    *int    `json:"week_id"`
	Status    *Status `json:"status"`
}
