package handler

import (
	"net/http"
	"strconv"

	"github.com/frpatino6/parkingHub/internal/apierror"
	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/middleware"
	"github.com/frpatino6/parkingHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TicketsHandler struct{ svc service.TicketService }

func NewTicketsHandler(svc service.TicketService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

// CheckIn godoc
// @Summary Registra el ingreso de un vehiculo y genera su ticket con QR
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CheckInRequest true "Datos de ingreso"
// @Success 201 {object} dto.CheckInResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/tickets/check-in [post]
func (h *TicketsHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CheckIn(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CheckOut godoc
// @Summary Cobra y cierra un ticket abierto
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CheckOutRequest true "Codigo QR o placa y medio de pago"
// @Success 200 {object} dto.TicketResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/tickets/check-out [post]
func (h *TicketsHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CheckOut(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary Anula un ticket abierto sin cobro
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del ticket"
// @Param body body dto.CancelTicketRequest true "Motivo de anulacion"
// @Success 200 {object} dto.TicketResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/tickets/{id}/cancel [post]
func (h *TicketsHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CancelTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), middleware.GetActor(c), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByQr godoc
// @Summary Consulta un ticket por QR con la tarifa acumulada hasta ahora
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param code path string true "Codigo QR o placa"
// @Success 200 {object} dto.TicketInfoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/tickets/qr/{code} [get]
func (h *TicketsHandler) GetByQr(c *gin.Context) {
	resp, err := h.svc.GetByQr(c.Request.Context(), middleware.GetActor(c), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListActive returns every vehicle currently inside the branch.
func (h *TicketsHandler) ListActive(c *gin.Context) {
	resp, err := h.svc.ListActive(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HistoryByPlate returns the paginated session history of a plate.
func (h *TicketsHandler) HistoryByPlate(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.HistoryByPlate(c.Request.Context(), middleware.GetActor(c), c.Param("plate"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
