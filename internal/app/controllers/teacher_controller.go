package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// TeacherController handles a teacher's timetable, classes, attendance and grades
type TeacherController struct {
	timetableService  *services.TimetableService
	teachingService   *services.TeachingService
	attendanceService *services.AttendanceService
	gradeService      *services.GradeService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(s *services.Services) *TeacherController {
	return &TeacherController{
		timetableService:  s.Timetable,
		teachingService:   s.Teaching,
		attendanceService: s.Attendance,
		gradeService:      s.Grade,
	}
}

// GetTimetable returns the teacher's week
// @Summary My timetable
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=[]models.TimetableEntry}
// @Router /teacher/timetable [get]
func (c *TeacherController) GetTimetable(ctx *gin.Context) {
	entries, err := c.timetableService.ListForTeacher(ctx.Request.Context(), identity(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}

// CreateTimetableEntry schedules a lesson for the teacher
// @Summary Add lesson
// @Description Adds a weekly lesson. The slot must not overlap any other lesson of the teacher on that day.
// @Tags teacher
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.TimetableEntryRequest true "Timetable entry"
// @Success 201 {object} dto.APIResponse{data=models.TimetableEntry}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or end time not after start time"
// @Failure 404 {object} dto.ErrorResponse "Class or subject not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Router /teacher/timetable [post]
func (c *TeacherController) CreateTimetableEntry(ctx *gin.Context) {
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

	logger.Ctx(ctx.Request.Context()).Info().Int64("entryID", entry.ID).Int64("teacherID", entry.TeacherID).Msg("Timetable entry created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(entry))
}

// UpdateTimetableEntry replaces one of the teacher's lessons
// @Summary Update lesson
// @Tags teacher
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param id path int true "Timetable entry ID"
// @Param request body dto.TimetableEntryRequest true "Timetable entry"
// @Success 200 {object} dto.APIResponse{data=models.TimetableEntry}
// @Failure 403 {object} dto.ErrorResponse "Not your entry"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Router /teacher/timetable/{id} [put]
func (c *TeacherController) UpdateTimetableEntry(ctx *gin.Context) {
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

// DeleteTimetableEntry removes one of the teacher's lessons
// @Summary Delete lesson
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Param id path int true "Timetable entry ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not your entry"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Router /teacher/timetable/{id} [delete]
func (c *TeacherController) DeleteTimetableEntry(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.timetableService.Delete(ctx.Request.Context(), identity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Timetable entry deleted", nil))
}

// GetClasses returns the classes and subjects the teacher is scheduled for
// @Summary My classes
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=dto.TeachingOverview}
// @Router /teacher/classes [get]
func (c *TeacherController) GetClasses(ctx *gin.Context) {
	overview, err := c.teachingService.Overview(ctx.Request.Context(), identity(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(overview))
}

// GetClassSubjects returns the subjects the teacher teaches in a class
// @Summary Subjects in a class
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Failure 403 {object} dto.ErrorResponse "Not teaching this class"
// @Router /teacher/classes/{id}/subjects [get]
func (c *TeacherController) GetClassSubjects(ctx *gin.Context) {
	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	subjects, err := c.teachingService.SubjectsForClass(ctx.Request.Context(), identity(ctx).ID, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subjects))
}

// GetStudents lists the students of a class
// @Summary Students in a class
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Param classId query int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentSummary}
// @Failure 403 {object} dto.ErrorResponse "Not teaching this class"
// @Router /teacher/students [get]
func (c *TeacherController) GetStudents(ctx *gin.Context) {
	classID, ok := queryID(ctx, "classId")
	if !ok {
		return
	}

	students, err := c.teachingService.StudentsInClass(ctx.Request.Context(), identity(ctx).ID, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students))
}

// MarkAttendance records attendance for one lesson
// @Summary Mark attendance
// @Description Records each student's status for a date. Requires a timetable entry for the class and subject.
// @Tags teacher
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.MarkAttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResult}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this class and subject"
// @Router /teacher/attendance/mark [post]
func (c *TeacherController) MarkAttendance(ctx *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	result, err := c.attendanceService.Mark(ctx.Request.Context(), identity(ctx).ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// GetGrading returns the teacher's classes with the subject catalogue
// @Summary Grading overview
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=dto.TeachingOverview}
// @Router /teacher/grades [get]
func (c *TeacherController) GetGrading(ctx *gin.Context) {
	overview, err := c.teachingService.GradingOverview(ctx.Request.Context(), identity(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(overview))
}

// UploadGrades stores grades for a class and subject
// @Summary Upload grades
// @Description Every record is validated before any is stored; enrollment is checked per record.
// @Tags teacher
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body dto.UploadGradesRequest true "Grades"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResult}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this class and subject"
// @Router /teacher/grades [post]
func (c *TeacherController) UploadGrades(ctx *gin.Context) {
	var req dto.UploadGradesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	result, err := c.gradeService.Upload(ctx.Request.Context(), identity(ctx).ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Ctx(ctx.Request.Context()).Info().
		Int64("classID", req.ClassID).
		Int64("subjectID", req.SubjectID).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("Grades uploaded")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// GetGradeHistory lists grades for a class and subject
// @Summary Grade history
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Param classId query int true "Class ID"
// @Param subjectId query int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this class and subject"
// @Router /teacher/grades/history [get]
func (c *TeacherController) GetGradeHistory(ctx *gin.Context) {
	classID, ok := queryID(ctx, "classId")
	if !ok {
		return
	}
	subjectID, ok := queryID(ctx, "subjectId")
	if !ok {
		return
	}

	grades, err := c.gradeService.History(ctx.Request.Context(), identity(ctx).ID, classID, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(grades))
}

// DeleteGrade removes a grade the teacher recorded
// @Summary Delete grade
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not your grade"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /teacher/grades/{id} [delete]
func (c *TeacherController) DeleteGrade(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.gradeService.Delete(ctx.Request.Context(), identity(ctx).ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Grade deleted", nil))
}

// GetAnalytics summarizes a class
// @Summary Class analytics
// @Tags teacher
// @Produce json
// @Security SessionCookie
// @Param classId query int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassAnalytics}
// @Failure 403 {object} dto.ErrorResponse "Not teaching this class"
// @Router /teacher/analytics [get]
func (c *TeacherController) GetAnalytics(ctx *gin.Context) {
	classID, ok := queryID(ctx, "classId")
	if !ok {
		return
	}

	analytics, err := c.gradeService.Analytics(ctx.Request.Context(), identity(ctx).ID, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(analytics))
}
