package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursedesk/internal/app/controllers"
	"github.com/yigit/coursedesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	groupController *controllers.GroupController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.RateLimiter,
) {
	router.GET("/ping", healthController.Ping)
	router.GET("/health", healthController.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/ping", healthController.Ping)
	v1.GET("/health", healthController.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetProfile)

		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.GetAllCourses)
			courses.POST("", courseController.CreateCourse)
			courses.GET("/:id", courseController.GetCourseByID)
			courses.PUT("/:id", courseController.UpdateCourse)
			courses.DELETE("/:id", courseController.DeleteCourse)
		}

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.GetAllStudents)
			students.POST("", studentController.CreateStudent)
			students.GET("/:id", studentController.GetStudentByID)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
		}

		groups := authenticated.Group("/groups")
		{
			groups.GET("", groupController.GetGroups)
			groups.POST("/:chatId/participants/add", groupController.AddParticipant)
		}
	}
}
