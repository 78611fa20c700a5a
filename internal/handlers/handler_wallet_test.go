package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/handlers"
	"github.com/utilityguy/utility-backend/internal/middleware"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransitionResult), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransitionResult), args.Error(1)
}

func (m *MockLedgerService) Purchase(ctx context.Context, userID string, meterType domain.MeterType, amount decimal.Decimal) (*domain.TransitionResult, error) {
	args := m.Called(ctx, userID, meterType, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransitionResult), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockLedgerService) CheckConsistency(ctx context.Context, userID string) (*dto.LedgerCheckResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LedgerCheckResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type WalletHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	jwtSecret         string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *WalletHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "utility-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLedgerService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterWalletRoutes(v1, suite.mockLedgerService)
}

func (suite *WalletHandlerTestSuite) authorizedRequest(method, url string, body []byte, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *WalletHandlerTestSuite) TestTopUp_Success() {
	userID := uuid.NewString()
	amount := decimal.RequireFromString("100.00")

	expected := &domain.TransitionResult{
		WalletBalance: decimal.RequireFromString("95.00"),
		Transactions: []domain.Transaction{
			{TransactionID: uuid.NewString(), Type: domain.TransactionCredit, Amount: decimal.RequireFromString("100.00")},
			{TransactionID: uuid.NewString(), Type: domain.TransactionServiceFee, Amount: decimal.RequireFromString("-5.00")},
		},
	}

	suite.mockLedgerService.On("TopUp",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(amount) }),
	).Return(expected, nil).Once()

	body, _ := json.Marshal(dto.TopUpRequest{Amount: amount})
	w := suite.authorizedRequest(http.MethodPost, "/api/v1/wallet/topup", body, userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransitionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.WalletBalance.Equal(decimal.RequireFromString("95.00")))
	suite.Len(resp.Transactions, 2)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestTopUp_InvalidAmount() {
	userID := uuid.NewString()

	suite.mockLedgerService.On("TopUp",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		mock.Anything,
	).Return(nil, fmt.Errorf("%w: gross amount must be positive", apperrors.ErrInvalidAmount)).Once()

	body, _ := json.Marshal(dto.TopUpRequest{Amount: decimal.RequireFromString("-10")})
	w := suite.authorizedRequest(http.MethodPost, "/api/v1/wallet/topup", body, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WalletHandlerTestSuite) TestWithdraw_InsufficientBalance() {
	userID := uuid.NewString()

	suite.mockLedgerService.On("Withdraw",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		mock.Anything,
	).Return(nil, apperrors.ErrInsufficientBalance).Once()

	body, _ := json.Marshal(dto.WithdrawRequest{Amount: decimal.RequireFromString("5000.00")})
	w := suite.authorizedRequest(http.MethodPost, "/api/v1/wallet/withdraw", body, userID)

	suite.Equal(http.StatusBadRequest, w.Code)

	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Insufficient wallet balance", resp["error"])
}

func (suite *WalletHandlerTestSuite) TestListTransactions_Success() {
	userID := uuid.NewString()
	limit := 10

	expected := &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{
			{
				TransactionID: uuid.NewString(),
				Type:          string(domain.TransactionPurchase),
				Amount:        decimal.RequireFromString("-95.00"),
				Units:         decimal.RequireFromString("63.333"),
				Timestamp:     time.Now(),
			},
		},
		NextToken: nil,
	}

	suite.mockLedgerService.On("ListTransactions",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.Limit == limit && p.Type != nil && *p.Type == "purchase"
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/wallet/transactions?limit=%d&type=purchase", limit)
	w := suite.authorizedRequest(http.MethodGet, url, nil, userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Nil(resp.NextToken)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestTopUp_MissingToken() {
	body, _ := json.Marshal(dto.TopUpRequest{Amount: decimal.RequireFromString("100.00")})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/wallet/topup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "TopUp")
}

func TestWalletHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}
