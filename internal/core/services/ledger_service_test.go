package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/core/services"
	"github.com/utilityguy/utility-backend/internal/dto"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ApplyTransition(ctx context.Context, t domain.BalanceTransition) (*domain.TransitionResult, error) {
	args := m.Called(ctx, t)
	var result *domain.TransitionResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.TransitionResult)
	}
	return result, args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, txType *domain.TransactionType, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, txType, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) SumTransactionAmounts(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockTxnRepo    *MockTransactionRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.LedgerSvcFacade
	userID         string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.userID = uuid.NewString()
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockTxnRepo, suite.mockUserRepo, services.LedgerRates{
		CommissionRate:         decimal.NewFromFloat(0.05),
		ElectricityPricePerKwh: decimal.NewFromFloat(1.50),
		WaterPricePerLiter:     decimal.NewFromFloat(0.02),
	})
}

func sumAmounts(txns []domain.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// --- Purchase Tests ---

func (suite *LedgerServiceTestSuite) TestPurchase_ElectricityBreakdown() {
	ctx := context.Background()

	var captured domain.BalanceTransition
	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.MatchedBy(func(t domain.BalanceTransition) bool {
		captured = t
		return t.UserID == suite.userID
	})).Return(&domain.TransitionResult{WalletBalance: decimal.NewFromInt(150)}, nil).Once()

	result, err := suite.service.Purchase(ctx, suite.userID, domain.MeterElectricity, decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Require().NotNil(result)

	// R100 at 5% commission and R1.50/kWh: fee 5.00, net 95.00, 63.333 kWh.
	suite.True(captured.WalletDelta.Equal(decimal.NewFromInt(-100)), "wallet delta %s", captured.WalletDelta)
	suite.True(captured.UnitsDelta.Equal(decimal.RequireFromString("63.333")), "units %s", captured.UnitsDelta)
	suite.Equal(domain.MeterElectricity, captured.MeterType)

	suite.Require().Len(captured.Transactions, 2)
	purchase, fee := captured.Transactions[0], captured.Transactions[1]
	suite.Equal(domain.TransactionPurchase, purchase.Type)
	suite.True(purchase.Amount.Equal(decimal.NewFromInt(-95)))
	suite.True(purchase.Units.Equal(decimal.RequireFromString("63.333")))
	suite.Equal(domain.TransactionServiceFee, fee.Type)
	suite.True(fee.Amount.Equal(decimal.NewFromInt(-5)))

	// Signed amounts must sum to the wallet delta so the ledger invariant holds.
	suite.True(sumAmounts(captured.Transactions).Equal(captured.WalletDelta))
}

func (suite *LedgerServiceTestSuite) TestPurchase_WaterBreakdown() {
	ctx := context.Background()

	var captured domain.BalanceTransition
	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.MatchedBy(func(t domain.BalanceTransition) bool {
		captured = t
		return true
	})).Return(&domain.TransitionResult{WalletBalance: decimal.NewFromInt(200)}, nil).Once()

	_, err := suite.service.Purchase(ctx, suite.userID, domain.MeterWater, decimal.NewFromInt(50))

	suite.Require().NoError(err)
	// R50 at 5% and R0.02/L: fee 2.50, net 47.50, 2375.000 L.
	suite.True(captured.UnitsDelta.Equal(decimal.RequireFromString("2375")))
	suite.Require().Len(captured.Transactions, 2)
	suite.True(captured.Transactions[0].Amount.Equal(decimal.RequireFromString("-47.5")))
	suite.True(captured.Transactions[1].Amount.Equal(decimal.RequireFromString("-2.5")))
}

func (suite *LedgerServiceTestSuite) TestPurchase_SharedTimestamp() {
	ctx := context.Background()

	var captured domain.BalanceTransition
	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.MatchedBy(func(t domain.BalanceTransition) bool {
		captured = t
		return true
	})).Return(&domain.TransitionResult{}, nil).Once()

	_, err := suite.service.Purchase(ctx, suite.userID, domain.MeterElectricity, decimal.NewFromInt(20))

	suite.Require().NoError(err)
	for _, txn := range captured.Transactions {
		suite.Equal(captured.Timestamp, txn.CreatedAt)
	}
}

func (suite *LedgerServiceTestSuite) TestPurchase_InvalidAmount() {
	ctx := context.Background()

	_, err := suite.service.Purchase(ctx, suite.userID, domain.MeterElectricity, decimal.NewFromInt(-10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyTransition", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPurchase_UnknownMeterType() {
	ctx := context.Background()

	_, err := suite.service.Purchase(ctx, suite.userID, domain.MeterType("gas"), decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyTransition", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPurchase_InsufficientBalancePropagates() {
	ctx := context.Background()

	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.AnythingOfType("domain.BalanceTransition")).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	result, err := suite.service.Purchase(ctx, suite.userID, domain.MeterElectricity, decimal.NewFromInt(100))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
}

func (suite *LedgerServiceTestSuite) TestPurchase_CommitFailurePropagates() {
	ctx := context.Background()

	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.AnythingOfType("domain.BalanceTransition")).
		Return(nil, apperrors.ErrCommitFailed).Once()

	result, err := suite.service.Purchase(ctx, suite.userID, domain.MeterElectricity, decimal.NewFromInt(100))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrCommitFailed)
}

// --- TopUp Tests ---

func (suite *LedgerServiceTestSuite) TestTopUp_NetCreditWithFee() {
	ctx := context.Background()

	var captured domain.BalanceTransition
	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.MatchedBy(func(t domain.BalanceTransition) bool {
		captured = t
		return true
	})).Return(&domain.TransitionResult{WalletBalance: decimal.NewFromInt(95)}, nil).Once()

	result, err := suite.service.TopUp(ctx, suite.userID, decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.True(result.WalletBalance.Equal(decimal.NewFromInt(95)))

	// Wallet gains the net; the credit and fee records sum to the same net.
	suite.True(captured.WalletDelta.Equal(decimal.NewFromInt(95)))
	suite.Equal(domain.MeterType(""), captured.MeterType)
	suite.True(captured.UnitsDelta.IsZero())
	suite.Require().Len(captured.Transactions, 2)
	suite.Equal(domain.TransactionCredit, captured.Transactions[0].Type)
	suite.True(captured.Transactions[0].Amount.Equal(decimal.NewFromInt(100)))
	suite.Equal(domain.TransactionServiceFee, captured.Transactions[1].Type)
	suite.True(captured.Transactions[1].Amount.Equal(decimal.NewFromInt(-5)))
	suite.True(sumAmounts(captured.Transactions).Equal(captured.WalletDelta))
}

func (suite *LedgerServiceTestSuite) TestTopUp_ZeroFeeSingleRecord() {
	ctx := context.Background()
	svc := services.NewLedgerService(suite.mockLedgerRepo, suite.mockTxnRepo, suite.mockUserRepo, services.LedgerRates{
		CommissionRate:         decimal.Zero,
		ElectricityPricePerKwh: decimal.NewFromFloat(1.50),
		WaterPricePerLiter:     decimal.NewFromFloat(0.02),
	})

	var captured domain.BalanceTransition
	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.MatchedBy(func(t domain.BalanceTransition) bool {
		captured = t
		return true
	})).Return(&domain.TransitionResult{}, nil).Once()

	_, err := svc.TopUp(ctx, suite.userID, decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Require().Len(captured.Transactions, 1)
	suite.True(captured.Transactions[0].Amount.Equal(decimal.NewFromInt(100)))
	suite.True(captured.WalletDelta.Equal(decimal.NewFromInt(100)))
}

func (suite *LedgerServiceTestSuite) TestTopUp_InvalidAmount() {
	ctx := context.Background()

	_, err := suite.service.TopUp(ctx, suite.userID, decimal.Zero)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyTransition", mock.Anything, mock.Anything)
}

// --- Withdraw Tests ---

func (suite *LedgerServiceTestSuite) TestWithdraw_GrossDebit() {
	ctx := context.Background()

	var captured domain.BalanceTransition
	suite.mockLedgerRepo.On("ApplyTransition", ctx, mock.MatchedBy(func(t domain.BalanceTransition) bool {
		captured = t
		return true
	})).Return(&domain.TransitionResult{WalletBalance: decimal.NewFromInt(0)}, nil).Once()

	_, err := suite.service.Withdraw(ctx, suite.userID, decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.True(captured.WalletDelta.Equal(decimal.NewFromInt(-100)))
	suite.Require().Len(captured.Transactions, 2)
	suite.Equal(domain.TransactionWithdraw, captured.Transactions[0].Type)
	suite.True(captured.Transactions[0].Amount.Equal(decimal.NewFromInt(-95)))
	suite.True(captured.Transactions[1].Amount.Equal(decimal.NewFromInt(-5)))
	suite.True(sumAmounts(captured.Transactions).Equal(captured.WalletDelta))
}

// --- ListTransactions Tests ---

func (suite *LedgerServiceTestSuite) TestListTransactions_DefaultLimit() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListTransactionsByUser", ctx, suite.userID, (*domain.TransactionType)(nil), 20, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestListTransactions_TypeFilter() {
	ctx := context.Background()
	filter := "purchase"
	expected := domain.TransactionPurchase

	suite.mockTxnRepo.On("ListTransactionsByUser", ctx, suite.userID, &expected, 10, (*string)(nil)).
		Return([]domain.Transaction{{TransactionID: uuid.NewString(), Type: expected}}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{Type: &filter, Limit: 10})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
}

func (suite *LedgerServiceTestSuite) TestListTransactions_UnknownType() {
	ctx := context.Background()
	filter := "refund"

	_, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{Type: &filter})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- CheckConsistency Tests ---

func (suite *LedgerServiceTestSuite) TestCheckConsistency_Balanced() {
	ctx := context.Background()
	balance := decimal.RequireFromString("342.50")
	user := &domain.User{UserID: suite.userID, WalletBalance: balance}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.mockTxnRepo.On("SumTransactionAmounts", ctx, suite.userID).Return(balance, nil).Once()

	resp, err := suite.service.CheckConsistency(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.True(resp.Consistent)
	suite.True(resp.WalletBalance.Equal(resp.TransactionSum))
}

func (suite *LedgerServiceTestSuite) TestCheckConsistency_Drift() {
	ctx := context.Background()
	user := &domain.User{UserID: suite.userID, WalletBalance: decimal.NewFromInt(100)}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.mockTxnRepo.On("SumTransactionAmounts", ctx, suite.userID).Return(decimal.NewFromInt(95), nil).Once()

	resp, err := suite.service.CheckConsistency(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.False(resp.Consistent)
}

func (suite *LedgerServiceTestSuite) TestCheckConsistency_UserNotFound() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.CheckConsistency(ctx, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SumTransactionAmounts", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCheckConsistency_SumError() {
	ctx := context.Background()
	user := &domain.User{UserID: suite.userID, WalletBalance: decimal.NewFromInt(10)}
	expectedErr := assert.AnError

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.mockTxnRepo.On("SumTransactionAmounts", ctx, suite.userID).Return(decimal.Zero, expectedErr).Once()

	resp, err := suite.service.CheckConsistency(ctx, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, expectedErr)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

// Shared-timestamp and rounding behaviour also hold for top-ups; the direct
// call keeps the table small.
func TestTopUpRoundsBeforeSplit(t *testing.T) {
	repo := new(MockLedgerRepository)
	svc := services.NewLedgerService(repo, new(MockTransactionRepository), new(MockUserRepository), services.LedgerRates{
		CommissionRate:         decimal.NewFromFloat(0.05),
		ElectricityPricePerKwh: decimal.NewFromFloat(1.50),
		WaterPricePerLiter:     decimal.NewFromFloat(0.02),
	})

	var captured domain.BalanceTransition
	repo.On("ApplyTransition", mock.Anything, mock.MatchedBy(func(tr domain.BalanceTransition) bool {
		captured = tr
		return true
	})).Return(&domain.TransitionResult{}, nil).Once()

	_, err := svc.TopUp(context.Background(), uuid.NewString(), decimal.RequireFromString("99.999"))

	assert.NoError(t, err)
	// 99.999 rounds to 100.00 before the fee split.
	assert.True(t, captured.Transactions[0].GrossAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, captured.WalletDelta.Equal(decimal.NewFromInt(95)))
}
