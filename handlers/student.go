package handlers

import (
	"net/http"
	"time"

	"attendance_api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StudentHandler struct {
	svc     *services.Service
	log     *zap.Logger
	timeout time.Duration
}

func NewStudentHandler(svc *services.Service, log *zap.Logger, timeout time.Duration) *StudentHandler {
	return &StudentHandler{svc: svc, log: log, timeout: timeout}
}

// GetStudents lists the roster ordered by student_id.
func (h *StudentHandler) GetStudents(c *gin.Context) {
	ctx, cancel := storeContext(c, h.timeout)
	defer cancel()

	students, err := h.svc.ListStudents(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    students,
		"count":   len(students),
	})
}
