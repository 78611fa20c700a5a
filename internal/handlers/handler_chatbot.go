package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
)

// chatbotHandler proxies support search queries to the chatbot backend.
type chatbotHandler struct {
	chatbotService portssvc.ChatbotSvcFacade
}

// registerChatbotRoutes registers the chatbot proxy route.
func registerChatbotRoutes(rg *gin.RouterGroup, chatbotService portssvc.ChatbotSvcFacade) {
	h := &chatbotHandler{chatbotService: chatbotService}
	rg.POST("/chatbot/search", h.search)
}

// search godoc
// @Summary Query the support chatbot
// @Description Forwards the query to the chatbot search endpoint and returns its ranked results.
// @Tags chatbot
// @Accept json
// @Produce json
// @Param search body dto.SearchRequest true "Query"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Chatbot backend unavailable"
// @Security BearerAuth
// @Router /chatbot/search [post]
func (h *chatbotHandler) search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	results, err := h.chatbotService.Search(c.Request.Context(), req.Query, req.NumResults)
	if err != nil {
		respondError(c, err, "Failed to query chatbot")
		return
	}

	c.JSON(http.StatusOK, dto.SearchResponse{Results: results})
}
