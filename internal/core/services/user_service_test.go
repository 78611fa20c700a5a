package services_test

import (
	"context"
	"testing"
	"time"

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
	"github.com/utilityguy/utility-backend/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserCredentials(ctx context.Context, userID string, email *string, passwordHash *string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, email, passwordHash, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiryTime)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

// --- RegisterUser Tests ---

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		Name:     "Alice",
		Surname:  "Smith",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == req.Email &&
			user.PasswordHash != req.Password &&
			user.WalletBalance.IsZero() &&
			user.IsActive && !user.IsAdmin
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(req.Email, user.Email)
	suite.NotEmpty(user.UserID)
	suite.True(utils.CheckPasswordHash(req.Password, user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{Email: "taken@example.com", Password: "password123", Name: "Dup"}
	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

// --- AuthenticateUser Tests ---

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "correct-horse"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "bob@example.com", PasswordHash: hash, IsActive: true}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "bob@example.com", PasswordHash: hash, IsActive: true}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, "wrong-password")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailSameError() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.AuthenticateUser(ctx, "nobody@example.com", "whatever")

	suite.Require().Error(err)
	suite.Nil(got)
	// Unknown email must be indistinguishable from a wrong password.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_DeactivatedAccount() {
	ctx := context.Background()
	password := "password123"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "gone@example.com", PasswordHash: hash, IsActive: false}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Reauthenticate / credential change tests ---

func (suite *UserServiceTestSuite) TestReauthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("actual-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err = suite.service.Reauthenticate(ctx, user.UserID, "guess")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrReauthRequired)
}

func (suite *UserServiceTestSuite) TestUpdatePassword_ReauthThenMutate() {
	ctx := context.Background()
	current := "old-password"
	hash, err := utils.HashPassword(current)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUserCredentials", ctx, user.UserID, (*string)(nil), mock.MatchedBy(func(h *string) bool {
		return h != nil && utils.CheckPasswordHash("new-password-1", *h)
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err = suite.service.UpdatePassword(ctx, user.UserID, dto.UpdatePasswordRequest{
		CurrentPassword: current,
		NewPassword:     "new-password-1",
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdatePassword_BadReauthNoMutation() {
	ctx := context.Background()
	hash, err := utils.HashPassword("old-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err = suite.service.UpdatePassword(ctx, user.UserID, dto.UpdatePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "new-password-1",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrReauthRequired)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUserCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateEmail_Success() {
	ctx := context.Background()
	current := "password123"
	hash, err := utils.HashPassword(current)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "old@example.com", PasswordHash: hash}
	newEmail := "new@example.com"

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil)
	suite.mockUserRepo.On("FindUserByEmail", ctx, newEmail).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("UpdateUserCredentials", ctx, user.UserID, &newEmail, (*string)(nil), mock.AnythingOfType("time.Time")).Return(nil).Once()

	got, err := suite.service.UpdateEmail(ctx, user.UserID, dto.UpdateEmailRequest{
		CurrentPassword: current,
		NewEmail:        newEmail,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Admin tests ---

func (suite *UserServiceTestSuite) TestAdminUpdateUser_NonAdminForbidden() {
	ctx := context.Background()
	requester := &domain.User{UserID: uuid.NewString(), IsAdmin: false}
	targetID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, requester.UserID).Return(requester, nil).Once()

	got, err := suite.service.AdminUpdateUser(ctx, requester.UserID, targetID, dto.AdminUpdateUserRequest{})

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAdminUpdateUser_TogglesFlags() {
	ctx := context.Background()
	admin := &domain.User{UserID: uuid.NewString(), IsAdmin: true}
	target := &domain.User{UserID: uuid.NewString(), Name: "Target", IsActive: true}
	inactive := false

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, target.UserID).Return(target, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == target.UserID && !u.IsActive && u.LastUpdatedBy == admin.UserID
	})).Return(nil).Once()

	got, err := suite.service.AdminUpdateUser(ctx, admin.UserID, target.UserID, dto.AdminUpdateUserRequest{IsActive: &inactive})

	suite.Require().NoError(err)
	suite.False(got.IsActive)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAdminUpdateUser_WalletUntouched() {
	ctx := context.Background()
	admin := &domain.User{UserID: uuid.NewString(), IsAdmin: true}
	target := &domain.User{UserID: uuid.NewString(), WalletBalance: decimal.NewFromFloat(123.45)}
	name := "Renamed"

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, target.UserID).Return(target, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.WalletBalance.Equal(decimal.NewFromFloat(123.45))
	})).Return(nil).Once()

	_, err := suite.service.AdminUpdateUser(ctx, admin.UserID, target.UserID, dto.AdminUpdateUserRequest{Name: &name})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- ListUsers Tests ---

func (suite *UserServiceTestSuite) TestListUsers_ClampsLimit() {
	ctx := context.Background()
	admin := &domain.User{UserID: uuid.NewString(), IsAdmin: true}

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockUserRepo.On("FindUsers", ctx, 20, 0).Return([]domain.User{}, nil).Once()

	_, err := suite.service.ListUsers(ctx, admin.UserID, 5000, -3)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestListUsers_RepoError() {
	ctx := context.Background()
	admin := &domain.User{UserID: uuid.NewString(), IsAdmin: true}
	expectedErr := assert.AnError

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockUserRepo.On("FindUsers", ctx, 20, 0).Return(nil, expectedErr).Once()

	users, err := suite.service.ListUsers(ctx, admin.UserID, 20, 0)

	suite.Require().Error(err)
	suite.Nil(users)
	suite.ErrorIs(err, expectedErr)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
