package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
)

// HandlerManager owns all HTTP handlers and the auth middleware.
type HandlerManager struct {
	serviceManager services.ServiceManager

	authHandler       *AuthHandler
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	progressHandler   *ProgressHandler
	quizHandler       *QuizHandler
	mentorshipHandler *MentorshipHandler
	adminHandler      *AdminHandler

	authMiddleware *AuthMiddleware
}

func NewHandlerManager(sm services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		serviceManager:    sm,
		authHandler:       NewAuthHandler(sm.Auth(), logger),
		userHandler:       NewUserHandler(sm.User(), logger),
		courseHandler:     NewCourseHandler(sm.Course(), logger),
		enrollmentHandler: NewEnrollmentHandler(sm.Enrollment(), logger),
		progressHandler:   NewProgressHandler(sm.Progress(), sm.Accessibility(), logger),
		quizHandler:       NewQuizHandler(sm.Quiz(), logger),
		mentorshipHandler: NewMentorshipHandler(sm.Mentorship(), logger),
		adminHandler:      NewAdminHandler(sm.Admin(), logger),
		authMiddleware:    NewAuthMiddleware(sm.Auth()),
	}
}

// SetupRoutes registers every route on the router.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/refresh", hm.authHandler.Refresh)
		auth.POST("/logout", hm.authHandler.Logout)
	}

	authed := api.Group("")
	authed.Use(hm.authMiddleware.RequireAuth())
	{
		users := authed.Group("/users")
		{
			users.GET("/me", hm.userHandler.Me)
			users.PUT("/me", hm.userHandler.UpdateMe)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id/role",
				hm.authMiddleware.RequireRole(models.RoleAdministrator),
				hm.userHandler.UpdateRole)
		}

		courses := authed.Group("/courses")
		{
			courses.GET("", hm.courseHandler.List)
			courses.POST("",
				hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
				hm.courseHandler.Create)
			courses.GET("/:id", hm.courseHandler.Get)
			courses.PUT("/:id",
				hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
				hm.courseHandler.Update)
			courses.POST("/:id/publish",
				hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
				hm.courseHandler.Publish)
			courses.POST("/:id/modules",
				hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
				hm.courseHandler.AddModule)
			courses.GET("/:id/quizzes", hm.quizHandler.ListByCourse)
		}

		authed.POST("/modules/:id/lessons",
			hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
			hm.courseHandler.AddLesson)

		enrollments := authed.Group("/enrollments")
		{
			enrollments.POST("/:course_id", hm.enrollmentHandler.Enroll)
			enrollments.GET("/me", hm.enrollmentHandler.ListMine)
		}

		authed.GET("/progress", hm.progressHandler.ListMine)
		authed.PUT("/progress", hm.progressHandler.Record)
		authed.GET("/accessibility", hm.progressHandler.GetAccessibility)
		authed.PUT("/accessibility", hm.progressHandler.UpdateAccessibility)

		quizzes := authed.Group("/quizzes")
		{
			quizzes.POST("",
				hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
				hm.quizHandler.Create)
			quizzes.GET("/:id", hm.quizHandler.Get)
			quizzes.POST("/:id/questions",
				hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
				hm.quizHandler.AddQuestion)
			quizzes.POST("/:id/submit", hm.quizHandler.Submit)
			quizzes.GET("/:id/submissions/me", hm.quizHandler.ListMySubmissions)
		}

		mentorship := authed.Group("/mentorship")
		{
			mentorship.GET("/groups", hm.mentorshipHandler.ListGroups)
			mentorship.POST("/groups",
				hm.authMiddleware.RequireRole(models.RoleMentor, models.RoleAdministrator),
				hm.mentorshipHandler.CreateGroup)
			mentorship.POST("/groups/:id/join", hm.mentorshipHandler.Join)
		}

		admin := authed.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRole(models.RoleAdministrator))
		{
			admin.GET("/stats", hm.adminHandler.Stats)
			admin.GET("/users", hm.adminHandler.ListUsers)
			admin.GET("/users/export", hm.adminHandler.ExportUsers)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
