package transactionrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// ListFilter narrows the transaction history query. Zero values mean "no
// filter"; Page is 1-based.
type ListFilter struct {
	Type  *domain.TransactionType
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int
}

func (r *Repository) Create(ctx context.Context, txn *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	query := `
		INSERT INTO wallet_transactions (id, user_id, type, amount, status, description, rule_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, txn.ID, txn.UserID, txn.Type, txn.Amount, txn.Status, txn.Description, txn.RuleID, txn.CreatedAt).Scan(&txn.ID)
	if err != nil {
		zap.L().Error("can't save wallet transaction", zap.Error(err))
		return nil, err
	}
	return txn, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID int, filter ListFilter) ([]domain.LedgerTransaction, int, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM wallet_transactions " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		zap.L().Error("failed to count wallet transactions", zap.Error(err))
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
        SELECT id, user_id, type, amount, status, description, rule_id, created_at
        FROM wallet_transactions
        %s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to fetch wallet transactions", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var txns []domain.LedgerTransaction
	for rows.Next() {
		var txn domain.LedgerTransaction
		err := rows.Scan(&txn.ID, &txn.UserID, &txn.Type, &txn.Amount, &txn.Status, &txn.Description, &txn.RuleID, &txn.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan wallet transaction row", zap.Error(err))
			return nil, 0, err
		}
		txns = append(txns, txn)
	}

	return txns, total, nil
}
