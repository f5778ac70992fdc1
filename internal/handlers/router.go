package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/edusync-service/internal/auth"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/services"
	"github.com/SAP-F-2025/edusync-service/internal/utils"
)

// HandlerManager manages all handlers
type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	assessmentHandler *AssessmentHandler
	resultHandler     *ResultHandler
	enrollmentHandler *EnrollmentHandler
	authMiddleware    *AuthMiddleware

	serviceManager services.ServiceManager
	logger         utils.Logger
}

// NewHandlerManager creates a new handler manager
func NewHandlerManager(serviceManager services.ServiceManager, tokens *auth.TokenManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		assessmentHandler: NewAssessmentHandler(serviceManager.Assessment(), logger),
		resultHandler:     NewResultHandler(serviceManager.Result(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		authMiddleware:    NewAuthMiddleware(tokens, logger),
		serviceManager:    serviceManager,
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.Health)

	v1 := router.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", hm.authHandler.Register)
		authRoutes.POST("/login", hm.authHandler.Login)
	}

	protected := v1.Group("")
	protected.Use(hm.authMiddleware.Authenticate())

	instructor := hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor)
	student := hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent)
	anyRole := hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor, models.RoleStudent)

	users := protected.Group("/users")
	{
		users.GET("", instructor, hm.userHandler.ListUsers)
		users.POST("", instructor, hm.userHandler.CreateUser)
		users.GET("/:id", anyRole, hm.userHandler.GetUser)
		users.PUT("/:id", anyRole, hm.userHandler.UpdateUser)
		users.DELETE("/:id", instructor, hm.userHandler.DeleteUser)
	}

	courses := protected.Group("/courses")
	{
		courses.GET("", anyRole, hm.courseHandler.ListCourses)
		courses.GET("/:id", anyRole, hm.courseHandler.GetCourse)
		courses.POST("", instructor, hm.courseHandler.CreateCourse)
		courses.PUT("/:id", instructor, hm.courseHandler.UpdateCourse)
		courses.DELETE("/:id", instructor, hm.courseHandler.DeleteCourse)
	}

	assessments := protected.Group("/assessments")
	{
		assessments.GET("", anyRole, hm.assessmentHandler.ListAssessments)
		assessments.GET("/:id", anyRole, hm.assessmentHandler.GetAssessment)
		assessments.POST("", instructor, hm.assessmentHandler.CreateAssessment)
		assessments.PUT("/:id", instructor, hm.assessmentHandler.UpdateAssessment)
		assessments.DELETE("/:id", instructor, hm.assessmentHandler.DeleteAssessment)
	}

	results := protected.Group("/results")
	{
		results.GET("", instructor, hm.resultHandler.ListResults)
		results.GET("/export", instructor, hm.resultHandler.ExportResults)
		results.GET("/:id", anyRole, hm.resultHandler.GetResult)
		results.POST("", student, hm.resultHandler.SubmitResult)
		results.PUT("/:id", instructor, hm.resultHandler.UpdateResult)
		results.DELETE("/:id", instructor, hm.resultHandler.DeleteResult)
	}

	enrollments := protected.Group("/enrollments")
	{
		enrollments.GET("", student, hm.enrollmentHandler.ListMyCourses)
		enrollments.POST("/student", student, hm.enrollmentHandler.EnrollSelf)
		enrollments.DELETE("/student/:courseId", student, hm.enrollmentHandler.UnenrollSelf)
		enrollments.POST("/instructor", instructor, hm.enrollmentHandler.EnrollStudent)
		enrollments.DELETE("/instructor/:courseId", instructor, hm.enrollmentHandler.UnenrollStudent)
		enrollments.GET("/course/:courseId/students", instructor, hm.enrollmentHandler.ListCourseStudents)
	}
}

// Health reports whether the database and cache are reachable
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (hm *HandlerManager) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		utils.FromContext(c, hm.logger).Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}
