package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/model"
	"github.com/stemsi/registrar-backend/internal/response"
	"github.com/stemsi/registrar-backend/internal/serialize"
	"github.com/stemsi/registrar-backend/internal/service"
	"github.com/stemsi/registrar-backend/internal/validator"
)

// CourseHandler handles the /courses endpoints.
type CourseHandler struct {
	courseService *service.CourseService
	log           zerolog.Logger
}

func NewCourseHandler(courseService *service.CourseService, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		log:           log.With().Str("component", "course_handler").Logger(),
	}
}

// List godoc
// GET /courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMaps(courses, "-enrollments"))
}

// Get godoc
// GET /courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMap(course))
}

// Create godoc
// POST /courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, serialize.ToMap(course, "-enrollments"))
}

// Patch godoc
// PATCH /courses/:id
func (h *CourseHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	course, err := h.courseService.Patch(c.Request.Context(), id, patch)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMap(course, "-enrollments"))
}

// Delete godoc
// DELETE /courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Students godoc
// GET /courses/:id/students
func (h *CourseHandler) Students(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	students, err := h.courseService.Students(c.Request.Context(), id)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMaps(students, "-enrollments"))
}
