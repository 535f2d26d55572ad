package db

import (
	"context"
	"fmt"
	"time"

	"attendance_api/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var nowFunc = time.Now

// SampleStudents returns the baseline roster, stamped with now.
func SampleStudents(now time.Time) []models.Student {
	return []models.Student{
		{StudentID: "20240001", Name: "김철수", Major: "컴퓨터공학과", CreatedAt: now},
		{StudentID: "20240002", Name: "이영희", Major: "경영학과", CreatedAt: now},
		{StudentID: "20240003", Name: "박민수", Major: "전자공학과", CreatedAt: now},
		{StudentID: "20240004", Name: "정수진", Major: "디자인학과", CreatedAt: now},
		{StudentID: "20240005", Name: "최윤호", Major: "영어영문학과", CreatedAt: now},
	}
}

// SampleWeeks returns weeks 1 through 7.
func SampleWeeks() []models.Week {
	weeks := make([]models.Week, 0, 7)
	for i := 1; i <= 7; i++ {
		weeks = append(weeks, models.Week{WeekID: i, WeekName: fmt.Sprintf("%d주차", i)})
	}
	return weeks
}

// SampleAttendance returns the week 1 records of the baseline roster.
func SampleAttendance(now time.Time) []models.AttendanceRecord {
	date := now.Format(models.DateLayout)
	return []models.AttendanceRecord{
		{StudentID: "20240001", WeekID: 1, Status: models.StatusPresent, Date: date, Timestamp: now},
		{StudentID: "20240002", WeekID: 1, Status: models.StatusPresent, Date: date, Timestamp: now},
		{StudentID: "20240003", WeekID: 1, Status: models.StatusLate, Date: date, Timestamp: now},
	}
}

func toDocs[T any](items []T) []any {
	docs := make([]any, len(items))
	for i, it := range items {
		docs[i] = it
	}
	return docs
}

// SeedData clears every collection and inserts the baseline dataset. The
// reset is not atomic: a failure part way leaves the collections cleared up
// to that point, and concurrent readers may see them empty.
func SeedData(ctx context.Context, store Store) error {
	now := nowFunc()

	for _, c := range Collections {
		if err := store.DeleteAll(ctx, c); err != nil {
			return errors.Wrapf(err, "error clearing %s", c)
		}
	}

	batches := []struct {
		collection string
		docs       []any
	}{
		{StudentsCollection, toDocs(SampleStudents(now))},
		{WeeksCollection, toDocs(SampleWeeks())},
		{AttendanceCollection, toDocs(SampleAttendance(now))},
	}
	for _, b := range batches {
		if err := store.InsertMany(ctx, b.collection, b.docs); err != nil {
			return errors.Wrapf(err, "error seeding %s", b.collection)
		}
	}
	return nil
}

// InitializeDatabase runs SeedData and reports success. Failures are logged,
// not returned.
func InitializeDatabase(ctx context.Context, store Store, log *zap.Logger) bool {
	if err := SeedData(ctx, store); err != nil {
		log.Error("database initialization failed", zap.Error(err))
		return false
	}
	log.Info("database initialized", zap.Strings("collections", Collections))
	return true
}
