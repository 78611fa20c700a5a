package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/middleware"
)

// cardHandler handles stored payment method requests.
type cardHandler struct {
	cardService portssvc.CardSvcFacade
}

func newCardHandler(cs portssvc.CardSvcFacade) *cardHandler {
	return &cardHandler{cardService: cs}
}

// registerCardRoutes registers payment card routes.
func registerCardRoutes(rg *gin.RouterGroup, cardService portssvc.CardSvcFacade) {
	h := newCardHandler(cardService)

	cards := rg.Group("/cards")
	{
		cards.GET("", h.listCards)
		cards.POST("", h.addCard)
		cards.DELETE("/:cardID", h.deleteCard)
		cards.PUT("/:cardID/default", h.setDefaultCard)
	}
}

// addCard godoc
// @Summary Store a payment method
// @Description Stores a tokenised card. Only the brand, last four digits and expiry are kept alongside the processor token.
// @Tags cards
// @Accept json
// @Produce json
// @Param card body dto.AddCardRequest true "Card details"
// @Success 201 {object} dto.CardResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired card"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards [post]
func (h *cardHandler) addCard(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	card, err := h.cardService.AddCard(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to store card")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCardResponse(card))
}

// listCards godoc
// @Summary List stored payment methods
// @Tags cards
// @Produce json
// @Success 200 {array} dto.CardResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards [get]
func (h *cardHandler) listCards(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	cards, err := h.cardService.ListCards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list cards")
		return
	}

	c.JSON(http.StatusOK, dto.ToCardResponses(cards))
}

// deleteCard godoc
// @Summary Remove a payment method
// @Tags cards
// @Produce json
// @Param cardID path string true "Card ID"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardID} [delete]
func (h *cardHandler) deleteCard(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.cardService.DeleteCard(c.Request.Context(), userID, c.Param("cardID")); err != nil {
		respondError(c, err, "Failed to delete card")
		return
	}

	c.Status(http.StatusNoContent)
}

// setDefaultCard godoc
// @Summary Set the default payment method
// @Tags cards
// @Produce json
// @Param cardID path string true "Card ID"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardID}/default [put]
func (h *cardHandler) setDefaultCard(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.cardService.SetDefaultCard(c.Request.Context(), userID, c.Param("cardID")); err != nil {
		respondError(c, err, "Failed to set default card")
		return
	}

	c.Status(http.StatusNoContent)
}
