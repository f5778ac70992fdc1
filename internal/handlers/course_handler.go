package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/edusync-service/internal/services"
	"github.com/SAP-F-2025/edusync-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// bindCourseForm binds the multipart fields and opens the optional media file.
// The returned cleanup must be called once the upload has been consumed.
func (h *CourseHandler) bindCourseForm(c *gin.Context, req *services.CreateCourseRequest) (*services.FileUpload, func(), bool) {
	if err := c.ShouldBind(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return nil, nil, false
	}

	header, err := c.FormFile("file")
	if err != nil {
		// No file part
		return nil, func() {}, true
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read uploaded file",
			Details: err.Error(),
		})
		return nil, nil, false
	}

	upload := &services.FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
	return upload, func() { file.Close() }, true
}

// ListCourses lists every course
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {array} models.CourseResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	courses, err := h.courseService.List(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse retrieves a course by ID
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.CourseResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// CreateCourse creates a course with optional media
// @Summary Create course
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param file formData file false "Course media"
// @Success 201 {object} models.CourseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req services.CreateCourseRequest
	file, cleanup, ok := h.bindCourseForm(c, &req)
	if !ok {
		return
	}
	defer cleanup()

	course, err := h.courseService.Create(c.Request.Context(), actor, &req, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Course created", "course_id", course.ID, "instructor_id", actor.ID)
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse updates a course, replacing its media when a file is sent
// @Summary Update course
// @Tags courses
// @Accept multipart/form-data
// @Param id path string true "Course ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param file formData file false "Course media"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	file, cleanup, ok := h.bindCourseForm(c, &req)
	if !ok {
		return
	}
	defer cleanup()

	if err := h.courseService.Update(c.Request.Context(), actor, id, &req, file); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteCourse deletes a course with its assessments, results and enrollments
// @Summary Delete course
// @Tags courses
// @Param id path string true "Course ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id, "deleted_by", actor.ID)

	if err := h.courseService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
