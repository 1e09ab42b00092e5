package walletservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/pg"
	transactionrepo "github.com/GlebRadaev/autosave/internal/repo/transaction-repo"
	"github.com/GlebRadaev/autosave/pkg/metrics"
)

type WalletRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.SavingsWallet, error)
	Create(ctx context.Context, userID int) (*domain.SavingsWallet, error)
	Credit(ctx context.Context, userID int, amount decimal.Decimal) (*domain.SavingsWallet, error)
	DebitWithdraw(ctx context.Context, userID int, amount decimal.Decimal) (*domain.SavingsWallet, error)
	DebitInvest(ctx context.Context, userID int, amount decimal.Decimal) (*domain.SavingsWallet, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, txn *domain.LedgerTransaction) (*domain.LedgerTransaction, error)
	ListByUserID(ctx context.Context, userID int, filter transactionrepo.ListFilter) ([]domain.LedgerTransaction, int, error)
}

// Publisher emits ledger events to interested consumers. Publishing is
// fire-and-forget: a publish failure never fails the money movement.
type Publisher interface {
	PublishTransaction(ctx context.Context, txn *domain.LedgerTransaction)
}

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Service owns all wallet mutation. Deposit, Withdraw and Invest are the only
// legal writers of wallet state; each runs the wallet update and the ledger
// append as a single database transaction.
type Service struct {
	walletRepo WalletRepo
	txnRepo    TransactionRepo
	txManager  pg.TXManager
	publisher  Publisher
}

func New(walletRepo WalletRepo, txnRepo TransactionRepo, txManager pg.TXManager, publisher Publisher) *Service {
	return &Service{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		txManager:  txManager,
		publisher:  publisher,
	}
}

// GetWallet loads the user's wallet, creating it on first access.
func (s *Service) GetWallet(ctx context.Context, userID int) (*domain.SavingsWallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	if wallet == nil {
		wallet, err = s.walletRepo.Create(ctx, userID)
		if err != nil {
			zap.L().Error("failed to create wallet", zap.Error(err))
			return nil, err
		}
	}
	return wallet, nil
}

func (s *Service) Deposit(ctx context.Context, userID int, amount decimal.Decimal, description string) (*domain.SavingsWallet, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	var wallet *domain.SavingsWallet
	var txn *domain.LedgerTransaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.walletRepo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			if _, err := s.walletRepo.Create(ctx, userID); err != nil {
				return err
			}
		}

		wallet, err = s.walletRepo.Credit(ctx, userID, amount)
		if err != nil {
			return err
		}

		txn = s.newTransaction(userID, domain.TransactionDeposit, amount, description, nil)
		_, err = s.txnRepo.Create(ctx, txn)
		return err
	})
	if err != nil {
		metrics.WalletOperations.WithLabelValues(string(domain.TransactionDeposit), "error").Inc()
		zap.L().Error("deposit failed", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}

	metrics.WalletOperations.WithLabelValues(string(domain.TransactionDeposit), "ok").Inc()
	s.publish(ctx, txn)
	return wallet, nil
}

func (s *Service) Withdraw(ctx context.Context, userID int, amount decimal.Decimal, reason string) (*domain.SavingsWallet, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	description := reason
	if description == "" {
		description = "Withdrawal from savings wallet"
	}

	wallet, txn, err := s.debit(ctx, userID, amount, domain.TransactionWithdrawal, description, nil)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, txn)
	return wallet, nil
}

// Invest moves wallet funds into an investment product. It is the only way
// the rule engine touches the wallet.
func (s *Service) Invest(ctx context.Context, userID int, amount decimal.Decimal, productID string, ruleID *string) (*domain.SavingsWallet, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	description := fmt.Sprintf("Investment in product %s", productID)
	wallet, txn, err := s.debit(ctx, userID, amount, domain.TransactionInvestment, description, ruleID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, txn)
	return wallet, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int, filter transactionrepo.ListFilter) ([]domain.LedgerTransaction, int, error) {
	txns, total, err := s.txnRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, 0, err
	}
	return txns, total, nil
}

// debit runs the conditional wallet decrement and the ledger append as one
// transaction. The balance check and the decrement are a single statement in
// the repository, so two concurrent debits can never both pass the check.
func (s *Service) debit(ctx context.Context, userID int, amount decimal.Decimal, txnType domain.TransactionType, description string, ruleID *string) (*domain.SavingsWallet, *domain.LedgerTransaction, error) {
	var wallet *domain.SavingsWallet
	var txn *domain.LedgerTransaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.walletRepo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrWalletNotFound
		}

		switch txnType {
		case domain.TransactionInvestment:
			wallet, err = s.walletRepo.DebitInvest(ctx, userID, amount)
		default:
			wallet, err = s.walletRepo.DebitWithdraw(ctx, userID, amount)
		}
		if err != nil {
			return err
		}
		if wallet == nil {
			return ErrInsufficientBalance
		}

		txn = s.newTransaction(userID, txnType, amount, description, ruleID)
		_, err = s.txnRepo.Create(ctx, txn)
		return err
	})
	if err != nil {
		metrics.WalletOperations.WithLabelValues(string(txnType), "error").Inc()
		if !errors.Is(err, ErrWalletNotFound) && !errors.Is(err, ErrInsufficientBalance) {
			zap.L().Error("debit failed", zap.Int("user_id", userID), zap.Error(err))
		}
		return nil, nil, err
	}

	metrics.WalletOperations.WithLabelValues(string(txnType), "ok").Inc()
	return wallet, txn, nil
}

func (s *Service) newTransaction(userID int, txnType domain.TransactionType, amount decimal.Decimal, description string, ruleID *string) *domain.LedgerTransaction {
	return &domain.LedgerTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        txnType,
		Amount:      amount,
		Status:      domain.TransactionCompleted,
		Description: description,
		RuleID:      ruleID,
		CreatedAt:   time.Now(),
	}
}

func (s *Service) publish(ctx context.Context, txn *domain.LedgerTransaction) {
	if s.publisher == nil || txn == nil {
		return
	}
	s.publisher.PublishTransaction(ctx, txn)
}
