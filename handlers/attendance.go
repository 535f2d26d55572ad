package handlers

import (
	"net/http"
	"time"

	"attendance_api/models"
	"attendance_api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttendanceHandler struct {
	svc     *services.Service
	log     *zap.Logger
	timeout time.Duration
}

func NewAttendanceHandler(svc *services.Service, log *zap.Logger, timeout time.Duration) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, log: log, timeout: timeout}
}

// GetBoard returns every student's status for every week.
func (h *AttendanceHandler) GetBoard(c *gin.Context) {
	ctx, cancel := storeContext(c, h.timeout)
	defer cancel()

	board, err := h.svc.BuildBoard(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    board,
	})
}

// CheckAttendance records one student's status for one week, replacing any
// earlier record of the same week.
func (h *AttendanceHandler) CheckAttendance(c *gin.Context) {
	var req models.CheckAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, err)
		return
	}

	ctx, cancel := storeContext(c, h.timeout)
	defer cancel()

	if err := h.svc.RecordAttendance(ctx, req.StudentID, req.WeekID, req.Status); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "출석이 체크되었습니다",
	})
}
