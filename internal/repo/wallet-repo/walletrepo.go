package walletrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/pg"
	"go.uber.org/zap"
)

const walletColumns = "id, user_id, balance, total_saved, total_withdrawn, total_invested, updated_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanWallet(row pgx.Row) (*domain.SavingsWallet, error) {
	var w domain.SavingsWallet
	err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.TotalSaved, &w.TotalWithdrawn, &w.TotalInvested, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.SavingsWallet, error) {
	query := `
        SELECT id, user_id, balance, total_saved, total_withdrawn, total_invested, updated_at
        FROM wallets
        WHERE user_id = $1
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (r *Repository) Create(ctx context.Context, userID int) (*domain.SavingsWallet, error) {
	query := `
        INSERT INTO wallets (user_id, balance, total_saved, total_withdrawn, total_invested)
        VALUES ($1, 0, 0, 0, 0)
        RETURNING id, user_id, balance, total_saved, total_withdrawn, total_invested, updated_at
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// Credit increments balance and total_saved as one statement.
func (r *Repository) Credit(ctx context.Context, userID int, amount decimal.Decimal) (*domain.SavingsWallet, error) {
	query := `
        UPDATE wallets
        SET balance = balance + $2, total_saved = total_saved + $2, updated_at = now()
        WHERE user_id = $1
        RETURNING id, user_id, balance, total_saved, total_withdrawn, total_invested, updated_at
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID, amount))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to credit wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// DebitWithdraw decrements balance and increments total_withdrawn in a single
// conditional statement: the balance check and the decrement cannot be
// separated by another writer. Returns (nil, nil) when the wallet is missing
// or the balance does not cover the amount.
func (r *Repository) DebitWithdraw(ctx context.Context, userID int, amount decimal.Decimal) (*domain.SavingsWallet, error) {
	query := `
        UPDATE wallets
        SET balance = balance - $2, total_withdrawn = total_withdrawn + $2, updated_at = now()
        WHERE user_id = $1 AND balance >= $2
        RETURNING id, user_id, balance, total_saved, total_withdrawn, total_invested, updated_at
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID, amount))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to debit wallet for withdrawal", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// DebitInvest is DebitWithdraw's counterpart for fund-moves into investment
// products: the decrement lands in total_invested.
func (r *Repository) DebitInvest(ctx context.Context, userID int, amount decimal.Decimal) (*domain.SavingsWallet, error) {
	query := `
        UPDATE wallets
        SET balance = balance - $2, total_invested = total_invested + $2, updated_at = now()
        WHERE user_id = $1 AND balance >= $2
        RETURNING id, user_id, balance, total_saved, total_withdrawn, total_invested, updated_at
    `
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, userID, amount))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to debit wallet for investment", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}
