package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/app/controllers"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	Admin   *controllers.AdminController
	Teacher *controllers.TeacherController
	Student *controllers.StudentController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/logout", c.Auth.Logout)
		auth.GET("/me", authMiddleware.SessionAuth(), c.Auth.Me)
	}

	// --- Admin routes ---
	admin := api.Group("/admin")
	admin.Use(authMiddleware.SessionAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", c.Admin.ListUsers)
		admin.POST("/users", c.Admin.CreateUser)
		admin.PUT("/users/:id", c.Admin.UpdateUser)
		admin.DELETE("/users/:id", c.Admin.DeleteUser)

		admin.GET("/classes", c.Admin.ListClasses)
		admin.POST("/classes", c.Admin.CreateClass)
		admin.PUT("/classes/:id", c.Admin.UpdateClass)
		admin.DELETE("/classes/:id", c.Admin.DeleteClass)

		admin.GET("/subjects", c.Admin.ListSubjects)
		admin.POST("/subjects", c.Admin.CreateSubject)

		admin.GET("/enrollments", c.Admin.ListEnrollments)
		admin.POST("/enrollments", c.Admin.CreateEnrollment)
		admin.DELETE("/enrollments/:id", c.Admin.DeleteEnrollment)

		admin.GET("/assignments", c.Admin.ListAssignments)
		admin.POST("/assignments", c.Admin.CreateAssignment)
		admin.PUT("/assignments/:id", c.Admin.UpdateAssignment)
		admin.DELETE("/assignments/:id", c.Admin.DeleteAssignment)
	}

	// --- Teacher routes ---
	teacher := api.Group("/teacher")
	teacher.Use(authMiddleware.SessionAuth(), authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/timetable", c.Teacher.GetTimetable)
		teacher.POST("/timetable", c.Teacher.CreateTimetableEntry)
		teacher.PUT("/timetable/:id", c.Teacher.UpdateTimetableEntry)
		teacher.DELETE("/timetable/:id", c.Teacher.DeleteTimetableEntry)

		teacher.GET("/classes", c.Teacher.GetClasses)
		teacher.GET("/classes/:id/subjects", c.Teacher.GetClassSubjects)
		teacher.GET("/students", c.Teacher.GetStudents)

		teacher.POST("/attendance/mark", c.Teacher.MarkAttendance)

		teacher.GET("/grades", c.Teacher.GetGrading)
		teacher.POST("/grades", c.Teacher.UploadGrades)
		teacher.GET("/grades/history", c.Teacher.GetGradeHistory)
		teacher.DELETE("/grades/:id", c.Teacher.DeleteGrade)

		teacher.GET("/analytics", c.Teacher.GetAnalytics)
	}

	// --- Student routes ---
	student := api.Group("/student")
	student.Use(authMiddleware.SessionAuth(), authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/timetable", c.Student.GetTimetable)
		student.GET("/attendance", c.Student.GetAttendance)
		student.GET("/grades", c.Student.GetGrades)
		student.GET("/report-card", c.Student.GetReportCard)
	}

	// Health check endpoint (public)
	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})

	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
