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

// StudentHandler handles the /students endpoints.
type StudentHandler struct {
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// List godoc
// GET /students
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMaps(students, "-enrollments"))
}

// Get godoc
// GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMap(student))
}

// Create godoc
// POST /students
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, serialize.ToMap(student))
}

// Patch godoc
// PATCH /students/:id
// Applies each attribute present in the body; unknown keys are ignored.
func (h *StudentHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	student, err := h.studentService.Patch(c.Request.Context(), id, patch)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMap(student))
}

// Delete godoc
// DELETE /students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Courses godoc
// GET /students/:id/courses
func (h *StudentHandler) Courses(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	courses, err := h.studentService.Courses(c.Request.Context(), id)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMaps(courses, "-enrollments"))
}
