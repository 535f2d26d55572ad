package handlers

import (
	"net/http"
	"time"

	"attendance_api/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SeedHandler struct {
	store   db.Store
	log     *zap.Logger
	timeout time.Duration
}

func NewSeedHandler(store db.Store, log *zap.Logger, timeout time.Duration) *SeedHandler {
	return &SeedHandler{store: store, log: log, timeout: timeout}
}

// InitDB resets every collection to the sample dataset.
func (h *SeedHandler) InitDB(c *gin.Context) {
	ctx, cancel := storeContext(c, h.timeout)
	defer cancel()

	if !db.InitializeDatabase(ctx, h.store, h.log) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   "데이터베이스 초기화 실패",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "✅ 데이터베이스 초기화 완료!",
		"collections": db.Collections,
	})
}
