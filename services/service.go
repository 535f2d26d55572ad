package services

import (
	"time"

	"attendance_api/db"

	"github.com/pkg/errors"
)

var (
	ErrMissingStudentID = errors.New("student_id is required")
)

var nowFunc = time.Now

// Service answers roster, board and attendance requests straight from the
// store. It holds no state of its own, so every read sees the latest writes.
type Service struct {
	store db.Store
}

func NewService(store db.Store) *Service {
	return &Service{store: store}
}
