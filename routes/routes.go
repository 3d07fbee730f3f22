package routes

import (
	"net/http"
	"time"

	"levi/handlers"
	"levi/middleware"
	"levi/models"
	"levi/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public sign-in endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)
		api.POST("/register", hb.RegisterHandler)
	}
}

// RegisterCatalogRoutes registers the public service and category listings.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/services/:id", hb.GetServiceHandler)
		api.GET("/categories", hb.ListCategoriesHandler)
	}
}

// RegisterBookingRoutes registers the booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.JWTSecret))
		api.GET("", hb.ListBookingsHandler)
		api.POST("", hb.CreateBookingHandler)
		api.PATCH("/:id", hb.UpdateBookingHandler)
		api.GET("/:id/changes", hb.StatusChangesHandler)
	}
}

// RegisterUserRoutes registers the profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.JWTSecret))
		api.GET("/profile", hb.GetProfileHandler)
		api.PATCH("/profile", hb.UpdateProfileHandler)
	}
}

// RegisterAdminRoutes registers endpoints reserved for administrators.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(hb.JWTSecret), middleware.RequireRole(models.RoleAdmin))
		adminGroup.GET("/bookings", hb.ListBookingsHandler)
		adminGroup.GET("/bookings/:id/changes", hb.StatusChangesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint reporting the last dependency check.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": http.StatusText(code), "services": status})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
	if hb.MediaDir != "" {
		r.Static("/media", hb.MediaDir)
	}
}
