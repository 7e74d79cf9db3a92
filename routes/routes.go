package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"breakfast-backend/controllers"
	"breakfast-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	ac *controllers.AuthController,
	gc *controllers.RoomGridController,
	rc *controllers.RoomController,
	jwtSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(jwtSecret))
		{
			protected.GET("/auth/me", ac.Me)

			grid := protected.Group("/room-grid")
			{
				// Fixed segments before the :propertyId wildcard.
				grid.POST("/consume", gc.MarkConsumed)
				grid.GET("/history", gc.GetHistory)
				grid.POST("/sync/:propertyId", gc.SyncFromPMS)
				grid.GET("/status/:propertyId", gc.GetSyncStatus)
				grid.GET("/report/:propertyId", gc.GetDailyReport)
				grid.GET("/analytics/:propertyId", gc.GetAnalytics)
				grid.GET("/:propertyId", gc.GetRoomGrid)
			}

			rooms := protected.Group("/rooms")
			{
				rooms.GET("", rc.GetRooms)
				rooms.POST("", rc.CreateRoom)
				rooms.PATCH("/:id", rc.UpdateRoom)
			}
		}
	}

	return r
}
