package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/model"
	"github.com/stemsi/registrar-backend/internal/repository"
	"github.com/stemsi/registrar-backend/internal/response"
)

// failFromError maps a service error onto a status code and error envelope.
// Anything unrecognised is logged and reported as an internal error.
func failFromError(c *gin.Context, log zerolog.Logger, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{ve.Field: ve.Message})
	case errors.Is(err, repository.ErrInvalidValue):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		response.FailWithMessage(c, http.StatusNotFound, response.ErrNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateTitle), errors.Is(err, repository.ErrDuplicateEnrollment):
		response.FailWithMessage(c, http.StatusConflict, response.ErrConflict, err.Error())
	default:
		log.Error().
			Err(err).
			Str("request_id", response.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseID reads the :id path parameter, replying 400 when it is not an
// integer that fits the id column.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return int(id), true
}

// bindPatch decodes a JSON object body for PATCH endpoints.
func bindPatch(c *gin.Context) (map[string]any, bool) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil || patch == nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, false
	}
	return patch, true
}
