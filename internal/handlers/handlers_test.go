package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	authhandlers "github.com/GlebRadaev/autosave/internal/handlers/auth"
	ruleshandlers "github.com/GlebRadaev/autosave/internal/handlers/rules"
	verificationhandlers "github.com/GlebRadaev/autosave/internal/handlers/verification"
	wallethandlers "github.com/GlebRadaev/autosave/internal/handlers/wallet"
	"github.com/GlebRadaev/autosave/internal/service"
	"github.com/GlebRadaev/autosave/internal/service/lockout"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:    authhandlers.NewMockService(ctrl),
		WalletService:  wallethandlers.NewMockService(ctrl),
		RuleService:    ruleshandlers.NewMockService(ctrl),
		CodeService:    verificationhandlers.NewMockCodeService(ctrl),
		LockoutService: lockout.New(lockout.NewMockCache(ctrl)),
	}

	h := New(services, ruleshandlers.NewMockDispatcher(ctrl), nil)
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.AuthHandler)
	assert.NotNil(t, h.WalletHandler)
	assert.NotNil(t, h.RulesHandler)
	assert.NotNil(t, h.VerificationHandler)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockWalletHandler := NewMockWalletHandler(ctrl)
	mockRulesHandler := NewMockRulesHandler(ctrl)
	mockVerificationHandler := NewMockVerificationHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockRulesHandler.EXPECT().ExecuteBatch(gomock.Any(), gomock.Any()).AnyTimes()
	mockVerificationHandler.EXPECT().GenerateCode(gomock.Any(), gomock.Any()).AnyTimes()
	mockVerificationHandler.EXPECT().VerifyCode(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler:         mockAuthHandler,
		WalletHandler:       mockWalletHandler,
		RulesHandler:        mockRulesHandler,
		VerificationHandler: mockVerificationHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/user/register", http.StatusOK},
		{"POST", "/api/user/login", http.StatusOK},
		{"POST", "/api/verification/codes", http.StatusOK},
		{"POST", "/api/verification/codes/verify", http.StatusOK},
		{"POST", "/api/autoinvest/execute-batch", http.StatusOK},
		{"GET", "/api/user/wallet", http.StatusUnauthorized},
		{"POST", "/api/user/wallet/deposit", http.StatusUnauthorized},
		{"POST", "/api/user/wallet/withdraw", http.StatusUnauthorized},
		{"GET", "/api/user/wallet/transactions", http.StatusUnauthorized},
		{"POST", "/api/user/autoinvest/rules", http.StatusUnauthorized},
		{"GET", "/api/user/autoinvest/rules", http.StatusUnauthorized},
		{"PUT", "/api/user/autoinvest/rules/rule-1", http.StatusUnauthorized},
		{"DELETE", "/api/user/autoinvest/rules/rule-1", http.StatusUnauthorized},
		{"POST", "/api/user/autoinvest/rules/rule-1/enable", http.StatusUnauthorized},
		{"POST", "/api/user/autoinvest/rules/execute", http.StatusUnauthorized},
		{"POST", "/api/user/pin/attempts", http.StatusUnauthorized},
		{"POST", "/api/user/pin/attempts/clear", http.StatusUnauthorized},
		{"GET", "/api/user/pin/lock", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
