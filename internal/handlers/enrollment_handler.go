package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/services"
	"github.com/SAP-F-2025/edusync-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// ListMyCourses lists the courses the caller is enrolled in
// @Summary List enrolled courses
// @Tags enrollments
// @Produce json
// @Success 200 {array} models.EnrollmentResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListMyCourses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	courses, err := h.enrollmentService.ListCourses(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// EnrollSelf enrolls the calling student in a course
// @Summary Enroll in course
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body services.StudentEnrollmentRequest true "Course"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollments/student [post]
func (h *EnrollmentHandler) EnrollSelf(c *gin.Context) {
	var req services.StudentEnrollmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.enrollmentService.EnrollSelf(c.Request.Context(), actor, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Student enrolled", "course_id", req.CourseID, "student_id", actor.ID)
	c.JSON(http.StatusOK, MessageResponse{Message: "Enrollment successful"})
}

// EnrollStudent enrolls a student in a course the caller teaches
// @Summary Enroll student
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body services.InstructorEnrollmentRequest true "Course and student"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollments/instructor [post]
func (h *EnrollmentHandler) EnrollStudent(c *gin.Context) {
	var req services.InstructorEnrollmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.enrollmentService.EnrollStudent(c.Request.Context(), actor, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Student enrolled by instructor", "course_id", req.CourseID, "student_id", req.StudentID)
	c.JSON(http.StatusOK, MessageResponse{Message: "Enrollment successful"})
}

// UnenrollSelf removes the caller from a course
// @Summary Leave course
// @Tags enrollments
// @Param courseId path string true "Course ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/student/{courseId} [delete]
func (h *EnrollmentHandler) UnenrollSelf(c *gin.Context) {
	courseID, ok := h.parseIDParam(c, "courseId")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.enrollmentService.UnenrollSelf(c.Request.Context(), actor, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Successfully unenrolled from the course"})
}

// UnenrollStudent removes a student from a course the caller teaches
// @Summary Remove student from course
// @Tags enrollments
// @Param courseId path string true "Course ID"
// @Param studentId query string true "Student ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/instructor/{courseId} [delete]
func (h *EnrollmentHandler) UnenrollStudent(c *gin.Context) {
	courseID, ok := h.parseIDParam(c, "courseId")
	if !ok {
		return
	}
	studentID, err := uuid.Parse(c.Query("studentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid ID format",
			Details: "studentId",
		})
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.enrollmentService.UnenrollStudent(c.Request.Context(), actor, courseID, studentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Successfully unenrolled student from the course"})
}

// ListCourseStudents lists the students enrolled in a course the caller teaches
// @Summary List course students
// @Tags enrollments
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/course/{courseId}/students [get]
func (h *EnrollmentHandler) ListCourseStudents(c *gin.Context) {
	courseID, ok := h.parseIDParam(c, "courseId")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	students, err := h.enrollmentService.ListStudents(c.Request.Context(), actor, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
