package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	"github.com/utilityguy/utility-backend/internal/core/services"
	"github.com/utilityguy/utility-backend/internal/dto"
)

// --- Mock LedgerSvcFacade ---
type MockLedgerSvc struct {
	mock.Mock
}

func (m *MockLedgerSvc) GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerSvc) TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error) {
	args := m.Called(ctx, userID, amount)
	var result *domain.TransitionResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.TransitionResult)
	}
	return result, args.Error(1)
}

func (m *MockLedgerSvc) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error) {
	args := m.Called(ctx, userID, amount)
	var result *domain.TransitionResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.TransitionResult)
	}
	return result, args.Error(1)
}

func (m *MockLedgerSvc) Purchase(ctx context.Context, userID string, meterType domain.MeterType, amount decimal.Decimal) (*domain.TransitionResult, error) {
	args := m.Called(ctx, userID, meterType, amount)
	var result *domain.TransitionResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.TransitionResult)
	}
	return result, args.Error(1)
}

func (m *MockLedgerSvc) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, userID, params)
	var resp *dto.ListTransactionsResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*dto.ListTransactionsResponse)
	}
	return resp, args.Error(1)
}

func (m *MockLedgerSvc) CheckConsistency(ctx context.Context, userID string) (*dto.LedgerCheckResponse, error) {
	args := m.Called(ctx, userID)
	var resp *dto.LedgerCheckResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*dto.LedgerCheckResponse)
	}
	return resp, args.Error(1)
}

// --- Test Suite ---
type SimulationServiceTestSuite struct {
	suite.Suite
	mockMeterRepo *MockMeterRepository
	mockLedgerSvc *MockLedgerSvc
	service       *services.SimulationService
	amount        decimal.Decimal
}

func (suite *SimulationServiceTestSuite) SetupTest() {
	suite.mockMeterRepo = new(MockMeterRepository)
	suite.mockLedgerSvc = new(MockLedgerSvc)
	suite.amount = decimal.NewFromInt(100)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = services.NewSimulationService(suite.mockMeterRepo, suite.mockLedgerSvc, time.Second, suite.amount, logger)
}

func status(meterType domain.MeterType, paused, autoPurchase bool, critical int64) domain.MeterStatus {
	userID := uuid.NewString()
	return domain.MeterStatus{
		Meter: domain.Meter{
			MeterID:           uuid.NewString(),
			UserID:            userID,
			MeterType:         meterType,
			CriticalThreshold: decimal.NewFromInt(critical),
			LowThreshold:      decimal.NewFromInt(critical * 5),
			AutoPurchase:      autoPurchase,
			IsPaused:          paused,
		},
		Reading: domain.MeterReading{
			ReadingID: uuid.NewString(),
			UserID:    userID,
			MeterType: meterType,
			Balance:   decimal.NewFromInt(300),
		},
	}
}

func (suite *SimulationServiceTestSuite) TestTick_DecrementsUnpausedMeters() {
	st := status(domain.MeterElectricity, false, false, 10)

	suite.mockMeterRepo.On("ListMeterStatuses", mock.Anything).
		Return([]domain.MeterStatus{st}, nil).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, st.Reading.ReadingID,
		mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.GreaterThanOrEqual(decimal.RequireFromString("0.1")) &&
				d.LessThan(decimal.RequireFromString("0.5")) &&
				d.Exponent() >= -3
		}), mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(299), nil).Once()

	suite.service.Tick(context.Background())

	suite.mockMeterRepo.AssertExpectations(suite.T())
}

func (suite *SimulationServiceTestSuite) TestTick_SkipsPausedMeters() {
	paused := status(domain.MeterWater, true, false, 5)
	active := status(domain.MeterElectricity, false, false, 10)

	suite.mockMeterRepo.On("ListMeterStatuses", mock.Anything).
		Return([]domain.MeterStatus{paused, active}, nil).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, active.Reading.ReadingID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(299), nil).Once()

	suite.service.Tick(context.Background())

	suite.mockMeterRepo.AssertExpectations(suite.T())
	suite.mockMeterRepo.AssertNotCalled(suite.T(), "ApplyDecrement", mock.Anything, paused.Reading.ReadingID, mock.Anything, mock.Anything)
}

func (suite *SimulationServiceTestSuite) TestTick_AutoPurchaseBelowCritical() {
	st := status(domain.MeterElectricity, false, true, 10)

	suite.mockMeterRepo.On("ListMeterStatuses", mock.Anything).
		Return([]domain.MeterStatus{st}, nil).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, st.Reading.ReadingID, mock.Anything, mock.Anything).
		Return(decimal.RequireFromString("9.8"), nil).Once()
	suite.mockLedgerSvc.On("Purchase", mock.Anything, st.Meter.UserID, domain.MeterElectricity, suite.amount).
		Return(&domain.TransitionResult{WalletBalance: decimal.NewFromInt(50)}, nil).Once()

	suite.service.Tick(context.Background())

	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *SimulationServiceTestSuite) TestTick_NoAutoPurchaseAboveCritical() {
	st := status(domain.MeterElectricity, false, true, 10)

	suite.mockMeterRepo.On("ListMeterStatuses", mock.Anything).
		Return([]domain.MeterStatus{st}, nil).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, st.Reading.ReadingID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(150), nil).Once()

	suite.service.Tick(context.Background())

	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Purchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SimulationServiceTestSuite) TestTick_NoAutoPurchaseWhenDisabled() {
	st := status(domain.MeterWater, false, false, 5)

	suite.mockMeterRepo.On("ListMeterStatuses", mock.Anything).
		Return([]domain.MeterStatus{st}, nil).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, st.Reading.ReadingID, mock.Anything, mock.Anything).
		Return(decimal.Zero, nil).Once()

	suite.service.Tick(context.Background())

	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Purchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SimulationServiceTestSuite) TestTick_InsufficientBalanceNotRetried() {
	st := status(domain.MeterElectricity, false, true, 10)

	suite.mockMeterRepo.On("ListMeterStatuses", mock.Anything).
		Return([]domain.MeterStatus{st}, nil).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, st.Reading.ReadingID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(2), nil).Once()
	suite.mockLedgerSvc.On("Purchase", mock.Anything, st.Meter.UserID, domain.MeterElectricity, suite.amount).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	suite.service.Tick(context.Background())

	// One attempt only; the failure is logged and the tick moves on.
	suite.mockLedgerSvc.AssertNumberOfCalls(suite.T(), "Purchase", 1)
}

func (suite *SimulationServiceTestSuite) TestTick_DecrementErrorSkipsMeter() {
	broken := status(domain.MeterElectricity, false, true, 10)
	healthy := status(domain.MeterWater, false, false, 5)

	suite.mockMeterRepo.On("ListMeterStatuses", mock.Anything).
		Return([]domain.MeterStatus{broken, healthy}, nil).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, broken.Reading.ReadingID, mock.Anything, mock.Anything).
		Return(decimal.Zero, apperrors.ErrMeterNotFound).Once()
	suite.mockMeterRepo.On("ApplyDecrement", mock.Anything, healthy.Reading.ReadingID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(100), nil).Once()

	suite.service.Tick(context.Background())

	suite.mockMeterRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Purchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSimulationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SimulationServiceTestSuite))
}
