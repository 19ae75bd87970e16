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

// EnrollmentHandler handles POST /enrollments.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	log               zerolog.Logger
}

func NewEnrollmentHandler(enrollmentService *service.EnrollmentService, log zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		log:               log.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Create godoc
// POST /enrollments
// Responds with the new enrollment including its student and course.
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req model.CreateEnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, serialize.ToMap(enrollment))
}
