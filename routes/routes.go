package routes

import (
	"time"

	"attendance_api/db"
	"attendance_api/handlers"
	"attendance_api/middleware"
	"attendance_api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, store db.Store, log *zap.Logger, timeout time.Duration) {
	svc := services.NewService(store)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store, timeout)
	seedHandler := handlers.NewSeedHandler(store, log, timeout)
	studentHandler := handlers.NewStudentHandler(svc, log, timeout)
	attendanceHandler := handlers.NewAttendanceHandler(svc, log, timeout)

	r.GET("/", healthHandler.Home)
	r.GET("/health", healthHandler.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/init-db", seedHandler.InitDB)
		api.GET("/students", studentHandler.GetStudents)
		api.GET("/attendance-board", attendanceHandler.GetBoard)
		api.POST("/attendance/check", attendanceHandler.CheckAttendance)
	}
}

// NewRouter builds the engine with logging, recovery and CORS in front of
// the routes.
func NewRouter(store db.Store, log *zap.Logger, timeout time.Duration, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log), middleware.CORS(corsOrigins))
	SetupRoutes(r, store, log, timeout)
	return r
}
