package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// StudentController serves the student portal
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// GetTimetable returns the timetable of the student's classes
// @Summary My timetable
// @Tags student
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=[]models.TimetableEntry}
// @Router /student/timetable [get]
func (c *StudentController) GetTimetable(ctx *gin.Context) {
	entries, err := c.studentService.Timetable(ctx.Request.Context(), identity(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}

// GetAttendance returns recent attendance marks
// @Summary My attendance
// @Tags student
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance}
// @Router /student/attendance [get]
func (c *StudentController) GetAttendance(ctx *gin.Context) {
	records, err := c.studentService.Attendance(ctx.Request.Context(), identity(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(records))
}

// GetGrades returns the student's grades
// @Summary My grades
// @Tags student
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Router /student/grades [get]
func (c *StudentController) GetGrades(ctx *gin.Context) {
	grades, err := c.studentService.Grades(ctx.Request.Context(), identity(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(grades))
}

// GetReportCard returns the student's report card
// @Summary My report card
// @Tags student
// @Produce json
// @Security SessionCookie
// @Success 200 {object} dto.APIResponse{data=dto.ReportCard}
// @Router /student/report-card [get]
func (c *StudentController) GetReportCard(ctx *gin.Context) {
	card, err := c.studentService.ReportCard(ctx.Request.Context(), identity(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(card))
}
