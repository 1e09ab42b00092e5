package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/autosave/internal/pg"
	"github.com/GlebRadaev/autosave/internal/repo"
	"github.com/GlebRadaev/autosave/internal/service/authservice"
	"github.com/GlebRadaev/autosave/internal/service/autoinvest"
	"github.com/GlebRadaev/autosave/internal/service/lockout"
	"github.com/GlebRadaev/autosave/internal/service/otpservice"
	"github.com/GlebRadaev/autosave/internal/service/walletservice"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repos := &repo.Repositories{
		UserRepo:        authservice.NewMockRepo(ctrl),
		WalletRepo:      walletservice.NewMockWalletRepo(ctrl),
		TransactionRepo: walletservice.NewMockTransactionRepo(ctrl),
		RuleRepo:        autoinvest.NewMockRuleRepo(ctrl),
		OTPRepo:         otpservice.NewMockRepo(ctrl),
	}
	ext := &Ext{
		Publisher: walletservice.NewMockPublisher(ctrl),
		Products:  autoinvest.NewMockProductClient(ctrl),
		Notifier:  otpservice.NewMockNotifier(ctrl),
		Cache:     lockout.NewMockCache(ctrl),
	}

	services := New(repos, pg.NewMockTXManager(ctrl), ext)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.WalletService)
	assert.NotNil(t, services.RuleService)
	assert.NotNil(t, services.CodeService)
	assert.NotNil(t, services.LockoutService)
}
