package handlers

import (
	"net/http"
	"time"

	"attendance_api/db"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	store   db.Store
	timeout time.Duration
}

func NewHealthHandler(store db.Store, timeout time.Duration) *HealthHandler {
	return &HealthHandler{store: store, timeout: timeout}
}

// Home describes the service and the backing store.
func (h *HealthHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "🎓 출석 관리 시스템 API",
		"status":   "작동중",
		"database": h.store.Name(),
	})
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := storeContext(c, h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
