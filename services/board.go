package services

import (
	"context"

	"attendance_api/db"
	"attendance_api/models"
)

type attendanceKey struct {
	studentID string
	weekID    int
}

// attendanceIndex resolves a (student, week) pair to its recorded status.
type attendanceIndex map[attendanceKey]models.Status

func newAttendanceIndex(records []models.AttendanceRecord) attendanceIndex {
	idx := make(attendanceIndex, len(records))
	for _, r := range records {
		k := attendanceKey{r.StudentID, r.WeekID}
		if _, ok := idx[k]; !ok { // first record wins
			idx[k] = r.Status
		}
	}
	return idx
}

func (idx attendanceIndex) lookup(studentID string, weekID int) (models.Status, bool) {
	s, ok := idx[attendanceKey{studentID, weekID}]
	return s, ok
}

// status is the recorded status or StatusAbsent when nothing was recorded.
func (idx attendanceIndex) status(studentID string, weekID int) models.Status {
	if s, ok := idx.lookup(studentID, weekID); ok {
		return s
	}
	return models.StatusAbsent
}

// BuildBoard joins every student with every week. Attendance records for
// unknown students or weeks are ignored. Any store error aborts the board.
func (svc *Service) BuildBoard(ctx context.Context) (*models.Board, error) {
	students := []models.Student{}
	if err := svc.store.FindAll(ctx, db.StudentsCollection, "student_id", &students); err != nil {
		return nil, err
	}
	weeks := []models.Week{}
	if err := svc.store.FindAll(ctx, db.WeeksCollection, "week_id", &weeks); err != nil {
		return nil, err
	}
	var records []models.AttendanceRecord
	if err := svc.store.FindAll(ctx, db.AttendanceCollection, "", &records); err != nil {
		return nil, err
	}
	idx := newAttendanceIndex(records)

	board := &models.Board{
		Weeks:    weeks,
		Students: make([]models.StudentRow, 0, len(students)),
	}
	for _, st := range students {
		row := models.StudentRow{
			ID:            st.ID,
			StudentID:     st.StudentID,
			Name:          st.Name,
			StudentNumber: st.StudentID,
			Major:         st.Major,
			Attendance:    make(map[int]models.Status, len(weeks)),
		}
		for _, w := range weeks {
			row.Attendance[w.WeekID] = idx.status(st.StudentID, w.WeekID)
		}
		board.Students = append(board.Students, row)
	}
	return board, nil
}
