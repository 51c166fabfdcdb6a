package handler

import (
	"net/http"

	"github.com/frpatino6/parkingHub/internal/apierror"
	"github.com/frpatino6/parkingHub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps domain errors to HTTP statuses. Anything without a kind is
// an internal failure and is logged with its request id, never echoed back.
func writeError(c *gin.Context, err error) {
	switch model.KindOf(err) {
	case model.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case model.KindConflict:
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case model.KindInvalidState:
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case model.KindValidation:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case model.KindForbidden:
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Err(err).
			Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
