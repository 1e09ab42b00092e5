package walletservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/pg"
	transactionrepo "github.com/GlebRadaev/autosave/internal/repo/transaction-repo"
)

func NewMock(t *testing.T) (*Service, *MockWalletRepo, *MockTransactionRepo, *pg.MockTXManager, *MockPublisher) {
	ctrl := gomock.NewController(t)
	walletRepo := NewMockWalletRepo(ctrl)
	txnRepo := NewMockTransactionRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	publisher := NewMockPublisher(ctrl)
	service := New(walletRepo, txnRepo, txManager, publisher)
	defer ctrl.Finish()
	return service, walletRepo, txnRepo, txManager, publisher
}

func passthroughBegin(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
}

func TestGetWallet(t *testing.T) {
	service, walletRepo, _, _, _ := NewMock(t)

	existing := &domain.SavingsWallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(100)}
	created := &domain.SavingsWallet{ID: 2, UserID: 2}

	tests := []struct {
		name        string
		userID      int
		prepareMock func()
		expected    *domain.SavingsWallet
		expectedErr error
	}{
		{
			name:   "Existing wallet returned",
			userID: 1,
			prepareMock: func() {
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(existing, nil)
			},
			expected: existing,
		},
		{
			name:   "Missing wallet is created lazily",
			userID: 2,
			prepareMock: func() {
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 2).Return(nil, nil)
				walletRepo.EXPECT().Create(gomock.Any(), 2).Return(created, nil)
			},
			expected: created,
		},
		{
			name:   "Repo error propagates",
			userID: 1,
			prepareMock: func() {
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			wallet, err := service.GetWallet(context.Background(), tt.userID)
			if tt.expectedErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, wallet)
			}
		})
	}
}

func TestDeposit(t *testing.T) {
	service, walletRepo, txnRepo, txManager, publisher := NewMock(t)

	amount := decimal.NewFromInt(500)
	credited := &domain.SavingsWallet{ID: 1, UserID: 1, Balance: amount, TotalSaved: amount}

	tests := []struct {
		name        string
		amount      decimal.Decimal
		prepareMock func()
		expected    *domain.SavingsWallet
		expectedErr error
	}{
		{
			name:   "Deposit credits wallet and appends ledger entry",
			amount: amount,
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(credited, nil)
				walletRepo.EXPECT().Credit(gomock.Any(), 1, amount).Return(credited, nil)
				txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, txn *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
						assert.Equal(t, domain.TransactionDeposit, txn.Type)
						assert.True(t, amount.Equal(txn.Amount))
						assert.NotEmpty(t, txn.ID)
						assert.Nil(t, txn.RuleID)
						return txn, nil
					})
				publisher.EXPECT().PublishTransaction(gomock.Any(), gomock.Any())
			},
			expected: credited,
		},
		{
			name:   "First deposit creates the wallet",
			amount: amount,
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(nil, nil)
				walletRepo.EXPECT().Create(gomock.Any(), 1).Return(&domain.SavingsWallet{ID: 1, UserID: 1}, nil)
				walletRepo.EXPECT().Credit(gomock.Any(), 1, amount).Return(credited, nil)
				txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.LedgerTransaction{}, nil)
				publisher.EXPECT().PublishTransaction(gomock.Any(), gomock.Any())
			},
			expected: credited,
		},
		{
			name:        "Zero amount rejected",
			amount:      decimal.Zero,
			prepareMock: func() {},
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "Negative amount rejected",
			amount:      decimal.NewFromInt(-10),
			prepareMock: func() {},
			expectedErr: ErrInvalidAmount,
		},
		{
			name:   "Ledger failure rolls the deposit back",
			amount: amount,
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(credited, nil)
				walletRepo.EXPECT().Credit(gomock.Any(), 1, amount).Return(credited, nil)
				txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert failed"))
			},
			expectedErr: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			wallet, err := service.Deposit(context.Background(), 1, tt.amount, "top up")
			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedErr.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, wallet)
			}
		})
	}
}

func TestWithdraw(t *testing.T) {
	service, walletRepo, txnRepo, txManager, publisher := NewMock(t)

	amount := decimal.NewFromInt(30)
	existing := &domain.SavingsWallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(100)}
	debited := &domain.SavingsWallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(70), TotalWithdrawn: amount}

	tests := []struct {
		name        string
		prepareMock func()
		expected    *domain.SavingsWallet
		expectedErr error
	}{
		{
			name: "Withdraw debits balance",
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(existing, nil)
				walletRepo.EXPECT().DebitWithdraw(gomock.Any(), 1, amount).Return(debited, nil)
				txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, txn *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
						assert.Equal(t, domain.TransactionWithdrawal, txn.Type)
						return txn, nil
					})
				publisher.EXPECT().PublishTransaction(gomock.Any(), gomock.Any())
			},
			expected: debited,
		},
		{
			name: "Missing wallet",
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(nil, nil)
			},
			expectedErr: ErrWalletNotFound,
		},
		{
			name: "Insufficient balance",
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(existing, nil)
				walletRepo.EXPECT().DebitWithdraw(gomock.Any(), 1, amount).Return(nil, nil)
			},
			expectedErr: ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			wallet, err := service.Withdraw(context.Background(), 1, amount, "rent")
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, wallet)
			}
		})
	}
}

func TestInvest(t *testing.T) {
	service, walletRepo, txnRepo, txManager, publisher := NewMock(t)

	amount := decimal.NewFromInt(40)
	ruleID := "rule-1"
	existing := &domain.SavingsWallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(100)}
	debited := &domain.SavingsWallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(60), TotalInvested: amount}

	tests := []struct {
		name        string
		prepareMock func()
		expected    *domain.SavingsWallet
		expectedErr error
	}{
		{
			name: "Invest debits into total_invested and records the rule",
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(existing, nil)
				walletRepo.EXPECT().DebitInvest(gomock.Any(), 1, amount).Return(debited, nil)
				txnRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, txn *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
						assert.Equal(t, domain.TransactionInvestment, txn.Type)
						assert.Equal(t, &ruleID, txn.RuleID)
						return txn, nil
					})
				publisher.EXPECT().PublishTransaction(gomock.Any(), gomock.Any())
			},
			expected: debited,
		},
		{
			name: "Insufficient balance",
			prepareMock: func() {
				passthroughBegin(txManager)
				walletRepo.EXPECT().GetByUserID(gomock.Any(), 1).Return(existing, nil)
				walletRepo.EXPECT().DebitInvest(gomock.Any(), 1, amount).Return(nil, nil)
			},
			expectedErr: ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			wallet, err := service.Invest(context.Background(), 1, amount, "prod-1", &ruleID)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, wallet)
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	service, _, txnRepo, _, _ := NewMock(t)

	now := time.Now()
	txns := []domain.LedgerTransaction{
		{ID: "txn-1", UserID: 1, Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(100), CreatedAt: now},
	}

	txnRepo.EXPECT().ListByUserID(gomock.Any(), 1, gomock.Any()).Return(txns, 1, nil)

	result, total, err := service.ListTransactions(context.Background(), 1, transactionrepo.ListFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, txns, result)
}
