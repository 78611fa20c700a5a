package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utilityguy/utility-backend/internal/core/domain"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/middleware"
)

// meterHandler handles meter registration, configuration, readings and unit
// purchases.
type meterHandler struct {
	meterService  portssvc.MeterSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

func newMeterHandler(ms portssvc.MeterSvcFacade, ls portssvc.LedgerSvcFacade) *meterHandler {
	return &meterHandler{meterService: ms, ledgerService: ls}
}

// registerMeterRoutes registers meter routes. :meterType is "electricity" or
// "water".
func registerMeterRoutes(rg *gin.RouterGroup, meterService portssvc.MeterSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newMeterHandler(meterService, ledgerService)

	meters := rg.Group("/meters")
	{
		meters.POST("/setup", h.setupMeters)
		meters.GET("/:meterType", h.getMeter)
		meters.PUT("/:meterType/config", h.updateConfig)
		meters.GET("/:meterType/reading", h.getReading)
		meters.POST("/:meterType/purchase", h.purchase)
	}
}

// setupMeters godoc
// @Summary Register both utility meters
// @Description One-time setup: registers the electricity and water meters, seeds their readings and credits the opening wallet amount.
// @Tags meters
// @Accept json
// @Produce json
// @Param setup body dto.MeterSetupRequest true "Meter numbers (11 digits each)"
// @Success 201 {object} dto.MeterSetupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Meters already configured"
// @Security BearerAuth
// @Router /meters/setup [post]
func (h *meterHandler) setupMeters(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.MeterSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.meterService.SetupMeters(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to set up meters")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getMeter godoc
// @Summary Get meter configuration
// @Tags meters
// @Produce json
// @Param meterType path string true "electricity or water"
// @Success 200 {object} dto.MeterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /meters/{meterType} [get]
func (h *meterHandler) getMeter(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	meter, err := h.meterService.GetMeter(c.Request.Context(), userID, domain.MeterType(c.Param("meterType")))
	if err != nil {
		respondError(c, err, "Failed to retrieve meter")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeterResponse(meter))
}

// updateConfig godoc
// @Summary Update meter configuration
// @Description Updates thresholds, auto-purchase, usage limit and pause state. The resulting threshold pair must keep critical below low.
// @Tags meters
// @Accept json
// @Produce json
// @Param meterType path string true "electricity or water"
// @Param config body dto.UpdateMeterConfigRequest true "Configuration fields"
// @Success 200 {object} dto.MeterResponse
// @Failure 400 {object} ErrorResponse "Invalid thresholds"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /meters/{meterType}/config [put]
func (h *meterHandler) updateConfig(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateMeterConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	meter, err := h.meterService.UpdateMeterConfig(c.Request.Context(), userID, domain.MeterType(c.Param("meterType")), req)
	if err != nil {
		respondError(c, err, "Failed to update meter configuration")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeterResponse(meter))
}

// getReading godoc
// @Summary Get live meter reading
// @Description Returns the meter's current unit balance, drained continuously by the decay simulation.
// @Tags meters
// @Produce json
// @Param meterType path string true "electricity or water"
// @Success 200 {object} dto.MeterReadingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /meters/{meterType}/reading [get]
func (h *meterHandler) getReading(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reading, err := h.meterService.GetReading(c.Request.Context(), userID, domain.MeterType(c.Param("meterType")))
	if err != nil {
		respondError(c, err, "Failed to retrieve reading")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeterReadingResponse(reading))
}

// purchase godoc
// @Summary Buy meter units
// @Description Converts a wallet amount into meter units: the wallet is debited by the gross, the meter credited with the units the net buys, and two ledger records are written atomically.
// @Tags meters
// @Accept json
// @Produce json
// @Param meterType path string true "electricity or water"
// @Param purchase body dto.PurchaseRequest true "Amount in ZAR"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient balance"
// @Failure 404 {object} ErrorResponse "No meter configured"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /meters/{meterType}/purchase [post]
func (h *meterHandler) purchase(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.ledgerService.Purchase(c.Request.Context(), userID, domain.MeterType(c.Param("meterType")), req.Amount)
	if err != nil {
		respondError(c, err, "Failed to complete purchase")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransitionResponse(result))
}
