package routes

import (
	"net/http"
	"time"

	"barberremind/handlers"
	"barberremind/middleware"
	"barberremind/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterReminderRoutes registers the dispatch endpoints.
func RegisterReminderRoutes(r *gin.Engine, dh *handlers.DispatchHandler) {
	api := r.Group("/api/reminders")
	{
		api.POST("/dispatch", dh.DispatchRemindersHandler)
		api.POST("/schedule", dh.ScheduleRemindersHandler)
	}
}

// RegisterAdminRoutes registers the usage report endpoint. Authorization
// happens inside the usage service so a bad secret yields a rejection,
// never partial data.
func RegisterAdminRoutes(r *gin.Engine, uh *handlers.UsageHandler) {
	admin := r.Group("/api/admin")
	{
		admin.GET("/usage", uh.GetUsageHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, dh *handlers.DispatchHandler, uh *handlers.UsageHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterReminderRoutes(r, dh)
	RegisterAdminRoutes(r, uh)
	RegisterHealthRoute(r)
}
