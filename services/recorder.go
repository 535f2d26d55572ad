package services

import (
	"context"
	"strings"

	"attendance_api/db"
	"attendance_api/models"
)

const defaultWeekID = 1

// RecordAttendance stores status for (studentID, weekID), replacing any
// earlier record of the same pair. A nil weekID means week 1 and a nil or
// empty status means StatusPresent. Neither the student nor the week has to
// exist; such records never show up on the board. studentID is stored as
// given, surrounding whitespace included.
func (svc *Service) RecordAttendance(ctx context.Context, studentID string, weekID *int, status *models.Status) error {
	if strings.TrimSpace(studentID) == "" {
		return ErrMissingStudentID
	}

	week := defaultWeekID
	if weekID != nil {
		week = *weekID
	}
	st := models.StatusPresent
	if status != nil && *status != "" {
		st = *status
	}

	now := nowFunc()
	rec := models.AttendanceRecord{
		StudentID: studentID,
		WeekID:    week,
		Status:    st,
		Date:      now.Format(models.DateLayout),
		Timestamp: now,
	}
	return svc.store.Upsert(ctx, db.AttendanceCollection,
		db.Filter{"student_id": rec.StudentID, "week_id": rec.WeekID}, rec)
}
