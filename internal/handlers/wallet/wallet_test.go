package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/dto"
	transactionrepo "github.com/GlebRadaev/autosave/internal/repo/transaction-repo"
	"github.com/GlebRadaev/autosave/internal/service/walletservice"
	"github.com/GlebRadaev/autosave/pkg/auth"
	"github.com/GlebRadaev/autosave/pkg/utils"
)

func NewMock(t *testing.T) (*WalletHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authorized(req *http.Request, userID int) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, userID))
}

func TestGetWalletHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Wallet returned",
			prepareMock: func() {
				service.EXPECT().GetWallet(gomock.Any(), 1).Return(&domain.SavingsWallet{
					UserID:     1,
					Balance:    decimal.NewFromInt(150),
					TotalSaved: decimal.NewFromInt(200),
					UpdatedAt:  time.Now(),
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Service failure",
			prepareMock: func() {
				service.EXPECT().GetWallet(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authorized(httptest.NewRequest("GET", "/api/user/wallet", nil), 1)
			rr := httptest.NewRecorder()

			handler.GetWallet(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.WalletResponseDTO
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.True(t, decimal.NewFromInt(150).Equal(resp.Balance))
			}
		})
	}
}

func TestDepositHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful deposit",
			body: `{"amount":"100.50","description":"salary"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 1, decimal.RequireFromString("100.50"), "salary").
					Return(&domain.SavingsWallet{Balance: decimal.RequireFromString("250.50")}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Non-positive amount",
			body: `{"amount":"0"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 1, decimal.RequireFromString("0"), "").
					Return(nil, walletservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: walletservice.ErrInvalidAmount.Error(),
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name: "Service failure",
			body: `{"amount":"100"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 1, decimal.NewFromInt(100), "").
					Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authorized(httptest.NewRequest("POST", "/api/user/wallet/deposit", bytes.NewReader([]byte(tt.body))), 1)
			rr := httptest.NewRecorder()

			handler.Deposit(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestWithdrawHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful withdrawal",
			body: `{"amount":"50","reason":"rent"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), 1, decimal.NewFromInt(50), "rent").
					Return(&domain.SavingsWallet{Balance: decimal.NewFromInt(100)}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Valid bank account passes the check",
			body: `{"amount":"50","bank_account_id":"79927398713"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), 1, decimal.NewFromInt(50), "").
					Return(&domain.SavingsWallet{Balance: decimal.NewFromInt(100)}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid bank account number",
			body:          `{"amount":"50","bank_account_id":"12345"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Invalid bank account number",
		},
		{
			name: "Insufficient balance",
			body: `{"amount":"5000"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), 1, decimal.NewFromInt(5000), "").
					Return(nil, walletservice.ErrInsufficientBalance)
			},
			expectedCode:  http.StatusPaymentRequired,
			expectedError: walletservice.ErrInsufficientBalance.Error(),
		},
		{
			name: "Wallet not found",
			body: `{"amount":"50"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), 1, decimal.NewFromInt(50), "").
					Return(nil, walletservice.ErrWalletNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: walletservice.ErrWalletNotFound.Error(),
		},
		{
			name: "Non-positive amount",
			body: `{"amount":"-1"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), 1, decimal.NewFromInt(-1), "").
					Return(nil, walletservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: walletservice.ErrInvalidAmount.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authorized(httptest.NewRequest("POST", "/api/user/wallet/withdraw", bytes.NewReader([]byte(tt.body))), 1)
			rr := httptest.NewRecorder()

			handler.Withdraw(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestGetTransactionsHandler(t *testing.T) {
	handler, service := NewMock(t)

	txns := []domain.LedgerTransaction{
		{ID: "txn-1", UserID: 1, Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(100), Status: domain.TransactionCompleted},
		{ID: "txn-2", UserID: 1, Type: domain.TransactionWithdrawal, Amount: decimal.NewFromInt(40), Status: domain.TransactionCompleted},
	}

	tests := []struct {
		name          string
		target        string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedTotal int
	}{
		{
			name:   "Defaults to first page",
			target: "/api/user/wallet/transactions",
			prepareMock: func() {
				service.EXPECT().ListTransactions(gomock.Any(), 1, transactionrepo.ListFilter{Page: 1, Limit: 20}).
					Return(txns, 2, nil)
			},
			expectedCode:  http.StatusOK,
			expectedTotal: 2,
		},
		{
			name:   "Type filter and paging",
			target: "/api/user/wallet/transactions?page=2&limit=10&type=DEPOSIT",
			prepareMock: func() {
				service.EXPECT().ListTransactions(gomock.Any(), 1, gomock.Any()).DoAndReturn(
					func(_ any, _ int, filter transactionrepo.ListFilter) ([]domain.LedgerTransaction, int, error) {
						assert.Equal(t, 2, filter.Page)
						assert.Equal(t, 10, filter.Limit)
						assert.Equal(t, domain.TransactionDeposit, *filter.Type)
						return txns[:1], 11, nil
					})
			},
			expectedCode:  http.StatusOK,
			expectedTotal: 11,
		},
		{
			name:          "Invalid page",
			target:        "/api/user/wallet/transactions?page=0",
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid page",
		},
		{
			name:          "Limit above cap",
			target:        "/api/user/wallet/transactions?limit=500",
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid limit",
		},
		{
			name:          "Unknown transaction type",
			target:        "/api/user/wallet/transactions?type=REFUND",
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid transaction type",
		},
		{
			name:   "Service failure",
			target: "/api/user/wallet/transactions",
			prepareMock: func() {
				service.EXPECT().ListTransactions(gomock.Any(), 1, transactionrepo.ListFilter{Page: 1, Limit: 20}).
					Return(nil, 0, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Failed to fetch transactions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authorized(httptest.NewRequest("GET", tt.target, nil), 1)
			rr := httptest.NewRecorder()

			handler.GetTransactions(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				var resp dto.TransactionListResponseDTO
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedTotal, resp.Total)
			}
		})
	}
}
