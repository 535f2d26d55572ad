package services

import (
	"context"

	"attendance_api/db"
	"attendance_api/models"
)

// ListStudents returns every student ordered by student_id.
func (svc *Service) ListStudents(ctx context.Context) ([]models.Student, error) {
	students := []models.Student{}
	if err := svc.store.FindAll(ctx, db.StudentsCollection, "student_id", &students); err != nil {
		return nil, err
	}
	return students, nil
}
