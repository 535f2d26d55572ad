package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendance_api/db"
	"attendance_api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errDown = errors.New("server selection error: server selection timeout")

// downStore behaves like a store whose server cannot be reached.
type downStore struct{}

func (downStore) InsertMany(context.Context, string, []any) error      { return errDown }
func (downStore) FindAll(context.Context, string, string, any) error   { return errDown }
func (downStore) DeleteAll(context.Context, string) error              { return errDown }
func (downStore) Upsert(context.Context, string, db.Filter, any) error { return errDown }
func (downStore) Ping(context.Context) error                           { return errDown }
func (downStore) Name() string                                         { return "MongoDB" }
func (downStore) Close(context.Context) error                          { return nil }

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantBody envelope
}

func newEngine(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	svc := services.NewService(store)

	health := NewHealthHandler(store, time.Second)
	seed := NewSeedHandler(store, log, time.Second)
	students := NewStudentHandler(svc, log, time.Second)
	attendance := NewAttendanceHandler(svc, log, time.Second)

	r := gin.New()
	r.GET("/", health.Home)
	r.GET("/health", health.HealthCheck)
	r.POST("/api/init-db", seed.InitDB)
	r.GET("/api/students", students.GetStudents)
	r.GET("/api/attendance-board", attendance.GetBoard)
	r.POST("/api/attendance/check", attendance.CheckAttendance)
	return r
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHandlers_StoreUnreachable(t *testing.T) {
	r := newEngine(downStore{})
	check := []byte(`{"student_id":"20240001","week_id":2,"status":"지각"}`)

	tests := []httpTest{
		{name: "init-db", method: http.MethodPost, path: "/api/init-db", wantCode: http.StatusOK,
			wantBody: envelope{Error: "데이터베이스 초기화 실패"}},
		{name: "students", method: http.MethodGet, path: "/api/students", wantCode: http.StatusOK,
			wantBody: envelope{Error: errDown.Error()}},
		{name: "board", method: http.MethodGet, path: "/api/attendance-board", wantCode: http.StatusOK,
			wantBody: envelope{Error: errDown.Error()}},
		{name: "check", method: http.MethodPost, path: "/api/attendance/check", body: check, wantCode: http.StatusOK,
			wantBody: envelope{Error: errDown.Error()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, decodeEnvelope(t, rec))
		})
	}
}

func TestHealthHandler(t *testing.T) {
	t.Run("home", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/")
		newEngine(downStore{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"🎓 출석 관리 시스템 API","status":"작동중","database":"MongoDB"}`, rec.Body.String())
	})

	t.Run("healthy", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/health")
		newEngine(db.NewMemoryStore()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("unhealthy", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/health")
		newEngine(downStore{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"error","error":"`+errDown.Error()+`"}`, rec.Body.String())
	})
}

func TestAttendanceHandler_CheckAttendanceBinding(t *testing.T) {
	store := db.NewMemoryStore()
	r := newEngine(store)

	tests := []struct {
		name        string
		body        string
		wantSuccess bool
		wantCount   int
	}{
		{name: "empty body", body: ``},
		{name: "malformed json", body: `{"student_id":`},
		{name: "missing student_id", body: `{"week_id":1}`},
		{name: "week_id of wrong type", body: `{"student_id":"20240001","week_id":"two"}`},
		{name: "only student_id", body: `{"student_id":"20240001"}`, wantSuccess: true, wantCount: 1},
		{name: "null week_id", body: `{"student_id":"20240001","week_id":null,"status":"지각"}`, wantSuccess: true, wantCount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/attendance/check", []byte(tt.body))
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantSuccess, env.Success)
			if tt.wantSuccess {
				assert.Equal(t, "출석이 체크되었습니다", env.Message)
			} else {
				assert.NotEmpty(t, env.Error)
			}
			assert.Equal(t, tt.wantCount, store.Count(db.AttendanceCollection, db.Filter{"student_id": "20240001", "week_id": 1}))
		})
	}
}
