package otpservice

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/autosave/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockNotifier) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	service := New(repo, notifier)
	defer ctrl.Finish()
	return service, repo, notifier
}

func TestGenerate(t *testing.T) {
	service, repo, notifier := NewMock(t)

	notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name          string
		identifier    string
		purpose       domain.OneTimeCodePurpose
		prepareMock   func()
		expectedError error
	}{
		{
			name:       "Generate code successfully",
			identifier: "+79990001122",
			purpose:    domain.PurposeRegistration,
			prepareMock: func() {
				repo.EXPECT().InvalidatePrior(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error) {
						assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code.Code)
						assert.Equal(t, 0, code.Attempts)
						assert.False(t, code.Verified)
						assert.WithinDuration(t, time.Now().Add(CodeTTL), code.ExpiresAt, time.Second)
						code.ID = 1
						return code, nil
					})
			},
		},
		{
			name:       "Invalidation failure",
			identifier: "+79990001122",
			purpose:    domain.PurposeRegistration,
			prepareMock: func() {
				repo.EXPECT().InvalidatePrior(gomock.Any(), "+79990001122", domain.PurposeRegistration).
					Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:       "Persistence failure",
			identifier: "+79990001122",
			purpose:    domain.PurposeLogin,
			prepareMock: func() {
				repo.EXPECT().InvalidatePrior(gomock.Any(), "+79990001122", domain.PurposeLogin).Return(nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert failed"))
			},
			expectedError: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			code, err := service.Generate(context.Background(), tt.identifier, tt.purpose)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, code)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, code)
				assert.Equal(t, tt.identifier, code.Identifier)
			}
		})
	}
}

func TestGenerate_DispatchesNotification(t *testing.T) {
	service, repo, notifier := NewMock(t)

	repo.EXPECT().InvalidatePrior(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error) {
			return code, nil
		})

	sent := make(chan string, 1)
	notifier.EXPECT().Send(gomock.Any(), "+79990001122", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, message string) error {
			sent <- message
			return nil
		})

	code, err := service.Generate(context.Background(), "+79990001122", domain.PurposeRegistration)
	assert.NoError(t, err)

	select {
	case message := <-sent:
		assert.Contains(t, message, code.Code)
	case <-time.After(time.Second):
		t.Fatal("notification was not dispatched")
	}
}

func TestVerify(t *testing.T) {
	service, repo, _ := NewMock(t)

	activeCode := func(attempts int) *domain.OneTimeCode {
		return &domain.OneTimeCode{
			ID:         10,
			Identifier: "+79990001122",
			Purpose:    domain.PurposeRegistration,
			Code:       "123456",
			ExpiresAt:  time.Now().Add(time.Minute),
			Attempts:   attempts,
		}
	}

	tests := []struct {
		name          string
		submitted     string
		prepareMock   func()
		expected      bool
		expectedError error
	}{
		{
			name:      "Correct code verifies and is marked",
			submitted: "123456",
			prepareMock: func() {
				repo.EXPECT().GetActive(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(activeCode(0), nil)
				repo.EXPECT().IncrementAttempts(gomock.Any(), 10).Return(1, nil)
				repo.EXPECT().MarkVerified(gomock.Any(), 10).Return(nil)
			},
			expected: true,
		},
		{
			name:      "Wrong code counts the attempt",
			submitted: "654321",
			prepareMock: func() {
				repo.EXPECT().GetActive(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(activeCode(1), nil)
				repo.EXPECT().IncrementAttempts(gomock.Any(), 10).Return(2, nil)
			},
			expected: false,
		},
		{
			name:      "No active code",
			submitted: "123456",
			prepareMock: func() {
				repo.EXPECT().GetActive(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(nil, nil)
			},
			expected: false,
		},
		{
			name:      "Expired code",
			submitted: "123456",
			prepareMock: func() {
				code := activeCode(0)
				code.ExpiresAt = time.Now().Add(-time.Second)
				repo.EXPECT().GetActive(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(code, nil)
			},
			expected: false,
		},
		{
			name:      "Attempts exhausted",
			submitted: "123456",
			prepareMock: func() {
				repo.EXPECT().GetActive(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(activeCode(MaxAttempts), nil)
			},
			expectedError: ErrAttemptsExceeded,
		},
		{
			name:      "Lookup failure",
			submitted: "123456",
			prepareMock: func() {
				repo.EXPECT().GetActive(gomock.Any(), "+79990001122", domain.PurposeRegistration).
					Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:      "Attempt counter failure",
			submitted: "123456",
			prepareMock: func() {
				repo.EXPECT().GetActive(gomock.Any(), "+79990001122", domain.PurposeRegistration).Return(activeCode(0), nil)
				repo.EXPECT().IncrementAttempts(gomock.Any(), 10).Return(0, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			verified, err := service.Verify(context.Background(), "+79990001122", tt.submitted, domain.PurposeRegistration)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, verified)
		})
	}
}

func TestIsVerified(t *testing.T) {
	service, repo, _ := NewMock(t)

	repo.EXPECT().HasVerified(gomock.Any(), "+79990001122", domain.PurposeRegistration, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ domain.OneTimeCodePurpose, since time.Time) (bool, error) {
			assert.WithinDuration(t, time.Now().Add(-VerifiedWindow), since, time.Second)
			return true, nil
		})

	verified, err := service.IsVerified(context.Background(), "+79990001122", domain.PurposeRegistration)
	assert.NoError(t, err)
	assert.True(t, verified)
}
