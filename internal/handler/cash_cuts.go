package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/frpatino6/parkingHub/internal/apierror"
	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/middleware"
	"github.com/frpatino6/parkingHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashCutsHandler struct{ svc service.CashCutService }

func NewCashCutsHandler(svc service.CashCutService) *CashCutsHandler {
	return &CashCutsHandler{svc: svc}
}

// Open godoc
// @Summary Abre el corte de caja (turno) del operador
// @Tags cash-cuts
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.CashCutResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash-cuts/open [post]
func (h *CashCutsHandler) Open(c *gin.Context) {
	resp, err := h.svc.Open(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Cierra el corte de caja con el efectivo contado y calcula la diferencia
// @Tags cash-cuts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseCashCutRequest true "Efectivo contado en caja"
// @Success 200 {object} dto.CashCutResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cash-cuts/close [post]
func (h *CashCutsHandler) Close(c *gin.Context) {
	var req dto.CloseCashCutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterMovement godoc
// @Summary Registra un ingreso o egreso manual en el corte abierto
// @Tags cash-cuts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovementRequest true "Movimiento manual"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cash-cuts/movements [post]
func (h *CashCutsHandler) RegisterMovement(c *gin.Context) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterMovement(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCurrent returns the operator's open cash cut with running totals.
func (h *CashCutsHandler) GetCurrent(c *gin.Context) {
	resp, err := h.svc.GetCurrent(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovements returns the manual movements of a cash cut.
func (h *CashCutsHandler) ListMovements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MovementsReport returns manual movements across the branch in a date range.
func (h *CashCutsHandler) MovementsReport(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro 'from' invalido, use YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro 'to' invalido, use YYYY-MM-DD"))
		return
	}
	// Include the whole 'to' day
	resp, err := h.svc.MovementsReport(c.Request.Context(), middleware.GetActor(c), from, to.Add(24*time.Hour))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns the operator's closed cash cuts, newest first.
func (h *CashCutsHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.History(c.Request.Context(), middleware.GetActor(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
