package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/middleware"
)

// walletHandler handles wallet funding, withdrawal and transaction history.
type walletHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newWalletHandler(ls portssvc.LedgerSvcFacade) *walletHandler {
	return &walletHandler{ledgerService: ls}
}

// RegisterWalletRoutes registers wallet and transaction-history routes.
func RegisterWalletRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newWalletHandler(ledgerService)

	wallet := rg.Group("/wallet")
	{
		wallet.GET("", h.getWallet)
		wallet.POST("/topup", h.topUp)
		wallet.POST("/withdraw", h.withdraw)
		wallet.GET("/transactions", h.listTransactions)
	}
}

// getWallet godoc
// @Summary Get wallet balance
// @Tags wallet
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	balance, err := h.ledgerService.GetWalletBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve wallet")
		return
	}

	c.JSON(http.StatusOK, dto.WalletResponse{WalletBalance: balance})
}

// topUp godoc
// @Summary Top up the wallet
// @Description Credits the wallet with the net of the amount after the service fee. Returns the new balance and the ledger records written.
// @Tags wallet
// @Accept json
// @Produce json
// @Param topup body dto.TopUpRequest true "Amount in ZAR"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet/topup [post]
func (h *walletHandler) topUp(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.ledgerService.TopUp(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err, "Failed to top up wallet")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransitionResponse(result))
}

// withdraw godoc
// @Summary Withdraw from the wallet
// @Description Debits the wallet by the gross amount; the net is paid out and the service fee retained.
// @Tags wallet
// @Accept json
// @Produce json
// @Param withdraw body dto.WithdrawRequest true "Amount in ZAR"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient balance"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet/withdraw [post]
func (h *walletHandler) withdraw(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.ledgerService.Withdraw(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err, "Failed to withdraw")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransitionResponse(result))
}

// listTransactions godoc
// @Summary List transaction history
// @Description Returns the user's ledger records, newest first, with token-based pagination. Filter with ?type=credit|purchase|service_fee|withdraw.
// @Tags wallet
// @Produce json
// @Param type query string false "Transaction type filter"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallet/transactions [get]
func (h *walletHandler) listTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ledgerCheck godoc
// @Summary Verify ledger consistency for a user
// @Description Compares the wallet balance with the signed sum of all transaction amounts. Requires admin.
// @Tags admin
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.LedgerCheckResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{userID}/ledger-check [get]
func (h *walletHandler) ledgerCheck(c *gin.Context) {
	targetUserID := c.Param("userID")

	resp, err := h.ledgerService.CheckConsistency(c.Request.Context(), targetUserID)
	if err != nil {
		respondError(c, err, "Failed to check ledger consistency")
		return
	}

	c.JSON(http.StatusOK, resp)
}
