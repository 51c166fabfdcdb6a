package handler

import (
	"net/http"

	"github.com/frpatino6/parkingHub/internal/apierror"
	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/middleware"
	"github.com/frpatino6/parkingHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PricingHandler struct{ svc service.PricingService }

func NewPricingHandler(svc service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// Create godoc
// @Summary Crea la tarifa activa para un tipo de vehiculo en la sede
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePricingConfigRequest true "Configuracion de tarifa"
// @Success 201 {object} dto.PricingConfigResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/pricing [post]
func (h *PricingHandler) Create(c *gin.Context) {
	var req dto.CreatePricingConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update applies a partial update to an existing pricing config.
func (h *PricingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.UpdatePricingConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns every pricing config of the branch, active and superseded.
func (h *PricingHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
