package router

import (
	"net/http"

	"github.com/edulane/course-be/internal/api/handler"
	"github.com/edulane/course-be/internal/domain"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "course-api-service",
		})
	})

	h := handler.New(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")

	// Public auth endpoints
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Everything else requires a valid token
	v1.Use(Authenticate(deps.Tokens))

	users := v1.Group("/users")
	{
		users.GET("", Authorize(domain.RoleManager), h.ListUsers)
		users.GET("/:user_id", h.GetUser)
		users.PUT("/:user_id", Authorize(domain.RoleManager), h.UpdateUser)
		users.DELETE("/:user_id", Authorize(domain.RoleManager), h.DeleteUser)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", h.ListCourses)
		courses.GET("/:course_id", h.GetCourse)
		courses.POST("", Authorize(domain.RoleManager), h.CreateCourse)
		courses.PUT("/:course_id", Authorize(domain.RoleManager), h.UpdateCourse)
		courses.DELETE("/:course_id", Authorize(domain.RoleManager), h.DeleteCourse)
	}

	cohorts := v1.Group("/cohorts")
	{
		cohorts.GET("", h.ListCohorts)
		cohorts.POST("", Authorize(domain.RoleManager), h.CreateCohort)
	}

	offerings := v1.Group("/offerings")
	{
		offerings.GET("", h.ListOfferings)
		offerings.GET("/:offering_id", h.GetOffering)
		offerings.POST("", Authorize(domain.RoleManager), h.CreateOffering)
		offerings.PUT("/:offering_id", Authorize(domain.RoleManager), h.UpdateOffering)
		offerings.DELETE("/:offering_id", Authorize(domain.RoleManager), h.DeleteOffering)
	}

	activities := v1.Group("/activities")
	{
		activities.GET("", h.ListActivities)
		activities.GET("/:activity_id", h.GetActivity)
		activities.POST("", Authorize(domain.RoleManager, domain.RoleFacilitator), h.CreateActivity)
		activities.PUT("/:activity_id", Authorize(domain.RoleManager, domain.RoleFacilitator), h.UpdateActivity)
		activities.POST("/:activity_id/submit", Authorize(domain.RoleFacilitator), h.SubmitActivity)
		activities.DELETE("/:activity_id", Authorize(domain.RoleManager), h.DeleteActivity)
	}

	notifications := v1.Group("/notifications")
	{
		notifications.GET("/stats", Authorize(domain.RoleManager), h.QueueStats)
	}

	return r
}
