package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// AdminController handles school administration: accounts, classes, subjects, enrollments and teaching assignments
type AdminController struct {
	userService       *services.UserService
	classService      *services.ClassService
	subjectService    *services.SubjectService
	enrollmentService *services.EnrollmentService
	timetableService  *services.TimetableService
}

// NewAdminController creates a new AdminController
func NewAdminController(s *services.Services) *AdminController {
	return &AdminController{
		userService:       s.User,
		classService:      s.Class,
		subjectService:    s.Subject,
		enrollmentService: s.Enrollment,
		timetableService:  s.Timetable,
	}
}

// ListUsers lists accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Param role query string false "Filter by role (student, teacher, admin)"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context(), ctx.Query("role"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(users))
}

// CreateUser creates an account
// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.CreateUserRequest true "Account"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Ctx(ctx.Request.Context()).Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(user))
}

// UpdateUser updates an account
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Account"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/users/{id} [put]
func (c *AdminController) UpdateUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.Update(ctx.Request.Context(), identity(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// DeleteUser deletes an account
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Cannot delete own account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Ctx(ctx.Request.Context()).Info().Int64("userID", id).Msg("User deleted")
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User deleted", nil))
}

// ListClasses lists classes
// @Summary List classes
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=[]models.Class}
// @Router /admin/classes [get]
func (c *AdminController) ListClasses(ctx *gin.Context) {
	classes, err := c.classService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(classes))
}

// CreateClass creates a class
// @Summary Create class
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.ClassRequest true "Class"
// @Success 201 {object} dto.APIResponse{data=models.Class}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or grade level out of range"
// @Failure 409 {object} dto.ErrorResponse "Class name already exists"
// @Router /admin/classes [post]
func (c *AdminController) CreateClass(ctx *gin.Context) {
	var req dto.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	class, err := c.classService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(class))
}

// UpdateClass updates a class
// @Summary Update class
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path int true "Class ID"
// @Param request body dto.ClassRequest true "Class"
// @Success 200 {object} dto.APIResponse{data=models.Class}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /admin/classes/{id} [put]
func (c *AdminController) UpdateClass(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	class, err := c.classService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class))
}

// DeleteClass deletes a class with no enrollments or timetable entries
// @Summary Delete class
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Class still has enrollments or timetable entries"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /admin/classes/{id} [delete]
func (c *AdminController) DeleteClass(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.classService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Class deleted", nil))
}

// ListSubjects lists subjects
// @Summary List subjects
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /admin/subjects [get]
func (c *AdminController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.subjectService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subjects))
}

// CreateSubject creates a subject
// @Summary Create subject
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.SubjectRequest true "Subject"
// @Success 201 {object} dto.APIResponse{data=models.Subject}
// @Failure 409 {object} dto.ErrorResponse "Subject code already exists"
// @Router /admin/subjects [post]
func (c *AdminController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	subject, err := c.subjectService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(subject))
}

// ListEnrollments lists enrollments
// @Summary List enrollments
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Param classId query int false "Filter by class"
// @Param studentId query int false "Filter by student"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment}
// @Router /admin/enrollments [get]
func (c *AdminController) ListEnrollments(ctx *gin.Context) {
	classID, ok := optionalQueryID(ctx, "classId")
	if !ok {
		return
	}
	studentID, ok := optionalQueryID(ctx, "studentId")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.List(ctx.Request.Context(), repositories.EnrollmentFilter{ClassID: classID, StudentID: studentID})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollments))
}

// CreateEnrollment enrolls a student in a class
// @Summary Enroll student
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.EnrollmentRequest true "Enrollment"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 400 {object} dto.ErrorResponse "User is not a student"
// @Failure 404 {object} dto.ErrorResponse "Student or class not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /admin/enrollments [post]
func (c *AdminController) CreateEnrollment(ctx *gin.Context) {
	var req dto.EnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	enrollment, err := c.enrollmentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(enrollment))
}

// DeleteEnrollment removes an enrollment
// @Summary Remove enrollment
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /admin/enrollments/{id} [delete]
func (c *AdminController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Enrollment removed", nil))
}

// ListAssignments lists timetable entries grouped by teacher
// @Summary List teaching assignments
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Param teacherId query int false "Only this teacher"
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherAssignments}
// @Router /admin/assignments [get]
func (c *AdminController) ListAssignments(ctx *gin.Context) {
	teacherID, ok := optionalQueryID(ctx, "teacherId")
	if !ok {
		return
	}

	groups, err := c.timetableService.ListAssignments(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(groups))
}

// CreateAssignment schedules a lesson for any teacher
// @Summary Create teaching assignment
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.TimetableEntryRequest true "Timetable entry; teacherId is required"
// @Success 201 {object} dto.APIResponse{data=models.TimetableEntry}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Router /admin/assignments [post]
func (c *AdminController) CreateAssignment(ctx *gin.Context) {
	var req dto.TimetableEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	entry, err := c.timetableService.Create(ctx.Request.Context(), identity(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(entry))
}

// UpdateAssignment replaces a timetable entry
// @Summary Update teaching assignment
// @Tags admin
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path int true "Timetable entry ID"
// @Param request body dto.TimetableEntryRequest true "Timetable entry"
// @Success 200 {object} dto.APIResponse{data=models.TimetableEntry}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Router /admin/assignments/{id} [put]
func (c *AdminController) UpdateAssignment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.TimetableEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	entry, err := c.timetableService.Update(ctx.Request.Context(), identity(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entry))
}

// DeleteAssignment removes a timetable entry
// @Summary Delete teaching assignment
// @Tags admin
// @Produce json
// @Security SessionCookie
// @Param id path int true "Timetable entry ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Router /admin/assignments/{id} [delete]
func (c *AdminController) DeleteAssignment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.timetableService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Assignment deleted", nil))
}
