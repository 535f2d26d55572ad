package db

import (
	"context"
	"testing"
	"time"

	"attendance_api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMockStore(mt *mtest.T) *MongoStore {
	return &MongoStore{client: mt.Client, db: mt.DB}
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock).DatabaseName("attendance_db"))
	ctx := context.Background()

	mt.Run("find sorts by key and renders object ids as hex", func(mt *mtest.T) {
		store := newMockStore(mt)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "attendance_db.students", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "student_id", Value: "20240001"}, {Key: "name", Value: "김철수"}},
			bson.D{{Key: "_id", Value: second}, {Key: "student_id", Value: "20240002"}, {Key: "name", Value: "이영희"}},
		))

		var students []models.Student
		require.NoError(mt, store.FindAll(ctx, StudentsCollection, "student_id", &students))
		require.Len(mt, students, 2)
		assert.Equal(mt, first.Hex(), students[0].ID)
		assert.Equal(mt, second.Hex(), students[1].ID)
		assert.Equal(mt, "이영희", students[1].Name)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, StudentsCollection, evt.Command.Lookup("find").StringValue())
		assert.Equal(mt, int32(1), evt.Command.Lookup("sort", "student_id").AsInt32())
	})

	mt.Run("find without sort key", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "attendance_db.attendance", mtest.FirstBatch))

		var records []models.AttendanceRecord
		require.NoError(mt, store.FindAll(ctx, AttendanceCollection, "", &records))
		assert.Empty(mt, records)

		_, err := mt.GetStartedEvent().Command.LookupErr("sort")
		assert.Error(mt, err, "no sort document is sent")
	})

	mt.Run("upsert sets the record on the matching pair", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
		rec := models.AttendanceRecord{StudentID: "20240001", WeekID: 2, Status: models.StatusLate, Date: "2026-10-16", Timestamp: now}
		require.NoError(mt, store.Upsert(ctx, AttendanceCollection, Filter{"student_id": "20240001", "week_id": 2}, rec))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		cmd := evt.Command
		assert.Equal(mt, AttendanceCollection, cmd.Lookup("update").StringValue())
		assert.True(mt, cmd.Lookup("updates", "0", "upsert").Boolean())
		assert.Equal(mt, "20240001", cmd.Lookup("updates", "0", "q", "student_id").StringValue())
		assert.Equal(mt, int32(2), cmd.Lookup("updates", "0", "q", "week_id").AsInt32())

		set := cmd.Lookup("updates", "0", "u", "$set").Document()
		assert.Equal(mt, string(models.StatusLate), set.Lookup("status").StringValue())
		assert.Equal(mt, "2026-10-16", set.Lookup("date").StringValue())
		assert.True(mt, now.Equal(set.Lookup("timestamp").Time()))
		_, err := set.LookupErr("_id")
		assert.Error(mt, err, "an empty id is never written")
	})

	mt.Run("upsert surfaces server errors", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad update"}))

		err := store.Upsert(ctx, AttendanceCollection, Filter{"student_id": "20240001", "week_id": 1}, models.AttendanceRecord{})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "upserting into attendance")
		assert.Contains(mt, err.Error(), "bad update")
	})

	mt.Run("insert and clear", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 7}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 7}),
		)

		require.NoError(mt, store.InsertMany(ctx, WeeksCollection, toDocs(SampleWeeks())))
		insert := mt.GetStartedEvent()
		assert.Equal(mt, "insert", insert.CommandName)
		assert.Equal(mt, "1주차", insert.Command.Lookup("documents", "0", "week_name").StringValue())
		assert.Equal(mt, bson.TypeObjectID, insert.Command.Lookup("documents", "6", "_id").Type)

		require.NoError(mt, store.DeleteAll(ctx, WeeksCollection))
		del := mt.GetStartedEvent()
		assert.Equal(mt, "delete", del.CommandName)
		query, err := del.Command.Lookup("deletes", "0", "q").Document().Elements()
		require.NoError(mt, err)
		assert.Empty(mt, query, "every document matches")
	})

	mt.Run("empty insert and unknown collection send nothing", func(mt *mtest.T) {
		store := newMockStore(mt)
		require.NoError(mt, store.InsertMany(ctx, StudentsCollection, nil))
		assert.ErrorIs(mt, store.DeleteAll(ctx, "courses"), ErrUnknownCollection)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestOpenMongo(t *testing.T) {
	t.Run("malformed uri", func(t *testing.T) {
		_, err := OpenMongo(context.Background(), "postgres://localhost", "attendance_db", zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("unreachable server still starts", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		store, err := OpenMongo(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200", "attendance_db", zap.New(core))
		require.NoError(t, err)
		defer func() { _ = store.Close(context.Background()) }()

		assert.Equal(t, "MongoDB", store.Name())
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)

		pingCtx, cancelPing := context.WithTimeout(context.Background(), time.Second)
		defer cancelPing()
		assert.Error(t, store.Ping(pingCtx))
	})
}
