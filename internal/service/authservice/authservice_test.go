package authservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockWalletService, *MockCodeVerifier, *auth.MockHashServiceInterface, *auth.MockJWTServiceInterface) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	walletService := NewMockWalletService(ctrl)
	codeVerifier := NewMockCodeVerifier(ctrl)
	hashService := auth.NewMockHashServiceInterface(ctrl)
	jwtService := auth.NewMockJWTServiceInterface(ctrl)
	service := New(repo, walletService, codeVerifier, hashService, jwtService)
	defer ctrl.Finish()
	return service, repo, walletService, codeVerifier, hashService, jwtService
}

func TestRegister(t *testing.T) {
	service, repo, walletService, codeVerifier, hashService, _ := NewMock(t)

	tests := []struct {
		name          string
		login         string
		phone         string
		password      string
		prepareMock   func()
		expectedError error
	}{
		{
			name:     "Successful registration creates a wallet",
			login:    "user1",
			phone:    "+79990001122",
			password: "password",
			prepareMock: func() {
				codeVerifier.EXPECT().IsVerified(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(true, nil)
				repo.EXPECT().FindByLogin(gomock.Any(), "user1").Return(nil, nil)
				repo.EXPECT().FindByPhone(gomock.Any(), "+79990001122").Return(nil, nil)
				hashService.EXPECT().HashPassword("password").Return("hashedPassword", nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.Equal(t, "hashedPassword", user.PasswordHash)
						created := *user
						created.ID = 1
						return &created, nil
					})
				walletService.EXPECT().GetWallet(gomock.Any(), 1).Return(&domain.SavingsWallet{UserID: 1}, nil)
			},
		},
		{
			name:     "Unverified phone is rejected",
			login:    "user1",
			phone:    "+79990001122",
			password: "password",
			prepareMock: func() {
				codeVerifier.EXPECT().IsVerified(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(false, nil)
			},
			expectedError: ErrPhoneNotVerified,
		},
		{
			name:     "Duplicate login",
			login:    "user1",
			phone:    "+79990001122",
			password: "password",
			prepareMock: func() {
				codeVerifier.EXPECT().IsVerified(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(true, nil)
				repo.EXPECT().FindByLogin(gomock.Any(), "user1").Return(&domain.User{ID: 2, Login: "user1"}, nil)
			},
			expectedError: ErrUserExists,
		},
		{
			name:     "Duplicate phone",
			login:    "user1",
			phone:    "+79990001122",
			password: "password",
			prepareMock: func() {
				codeVerifier.EXPECT().IsVerified(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(true, nil)
				repo.EXPECT().FindByLogin(gomock.Any(), "user1").Return(nil, nil)
				repo.EXPECT().FindByPhone(gomock.Any(), "+79990001122").Return(&domain.User{ID: 3}, nil)
			},
			expectedError: ErrUserExists,
		},
		{
			name:     "Verification check failure",
			login:    "user1",
			phone:    "+79990001122",
			password: "password",
			prepareMock: func() {
				codeVerifier.EXPECT().IsVerified(gomock.Any(), "+79990001122", domain.PurposeRegistration).
					Return(false, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:     "Wallet creation failure",
			login:    "user1",
			phone:    "+79990001122",
			password: "password",
			prepareMock: func() {
				codeVerifier.EXPECT().IsVerified(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(true, nil)
				repo.EXPECT().FindByLogin(gomock.Any(), "user1").Return(nil, nil)
				repo.EXPECT().FindByPhone(gomock.Any(), "+79990001122").Return(nil, nil)
				hashService.EXPECT().HashPassword("password").Return("hashedPassword", nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.User{ID: 1}, nil)
				walletService.EXPECT().GetWallet(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			user, err := service.Register(context.Background(), tt.login, tt.phone, tt.password)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.login, user.Login)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	service, repo, _, _, hashService, _ := NewMock(t)

	tests := []struct {
		name          string
		login         string
		password      string
		prepareMock   func()
		expectedError error
	}{
		{
			name:     "Valid credentials",
			login:    "user1",
			password: "password",
			prepareMock: func() {
				repo.EXPECT().FindByLogin(gomock.Any(), "user1").
					Return(&domain.User{ID: 1, Login: "user1", PasswordHash: "hashedPassword"}, nil)
				hashService.EXPECT().ComparePassword("hashedPassword", "password").Return(true)
			},
		},
		{
			name:     "Unknown login",
			login:    "ghost",
			password: "password",
			prepareMock: func() {
				repo.EXPECT().FindByLogin(gomock.Any(), "ghost").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Wrong password",
			login:    "user1",
			password: "oops",
			prepareMock: func() {
				repo.EXPECT().FindByLogin(gomock.Any(), "user1").
					Return(&domain.User{ID: 1, Login: "user1", PasswordHash: "hashedPassword"}, nil)
				hashService.EXPECT().ComparePassword("hashedPassword", "oops").Return(false)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Lookup failure maps to invalid credentials",
			login:    "user1",
			password: "password",
			prepareMock: func() {
				repo.EXPECT().FindByLogin(gomock.Any(), "user1").Return(nil, errors.New("db error"))
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			user, err := service.Authenticate(context.Background(), tt.login, tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.login, user.Login)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, _, _, _, _, jwtService := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedToken string
		expectedError error
	}{
		{
			name: "Token issued",
			prepareMock: func() {
				jwtService.EXPECT().GenerateJWT(1, gomock.Any()).Return("token123", nil)
			},
			expectedToken: "token123",
		},
		{
			name: "Signing failure",
			prepareMock: func() {
				jwtService.EXPECT().GenerateJWT(1, gomock.Any()).Return("", errors.New("signing error"))
			},
			expectedError: errors.New("signing error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			token, err := service.GenerateToken(1)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}

func TestFindByLogin(t *testing.T) {
	service, repo, _, _, _, _ := NewMock(t)

	repo.EXPECT().FindByLogin(gomock.Any(), "user1").Return(&domain.User{ID: 1, Login: "user1"}, nil)

	user, err := service.FindByLogin(context.Background(), "user1")
	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
}
