package rulerepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

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

func allocationColumns(rule *domain.AutoInvestRule) (percentage, amount *decimal.Decimal) {
	switch rule.Allocation.Kind {
	case domain.AllocationPercentage:
		percentage = &rule.Allocation.Value
	case domain.AllocationFixed:
		amount = &rule.Allocation.Value
	}
	return percentage, amount
}

func scanRule(row pgx.Row) (*domain.AutoInvestRule, error) {
	var rule domain.AutoInvestRule
	var percentage, amount *decimal.Decimal
	err := row.Scan(&rule.ID, &rule.UserID, &rule.ProductID, &rule.TriggerType, &rule.TriggerValue,
		&rule.Schedule, &percentage, &amount, &rule.Enabled, &rule.LastExecuted, &rule.CreatedAt)
	if err != nil {
		return nil, err
	}
	switch {
	case percentage != nil:
		rule.Allocation = domain.PercentageAllocation(*percentage)
	case amount != nil:
		rule.Allocation = domain.FixedAllocation(*amount)
	}
	return &rule, nil
}

func (r *Repository) Create(ctx context.Context, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error) {
	percentage, amount := allocationColumns(rule)
	query := `
		INSERT INTO autoinvest_rules (id, user_id, product_id, trigger_type, trigger_value, schedule, percentage, amount, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, rule.ID, rule.UserID, rule.ProductID, rule.TriggerType,
		rule.TriggerValue, rule.Schedule, percentage, amount, rule.Enabled, rule.CreatedAt).Scan(&rule.ID)
	if err != nil {
		zap.L().Error("can't save autoinvest rule", zap.Error(err))
		return nil, err
	}
	return rule, nil
}

func (r *Repository) Update(ctx context.Context, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error) {
	percentage, amount := allocationColumns(rule)
	query := `
		UPDATE autoinvest_rules
		SET product_id = $2, trigger_type = $3, trigger_value = $4, schedule = $5, percentage = $6, amount = $7, enabled = $8
		WHERE id = $1
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, rule.ID, rule.ProductID, rule.TriggerType, rule.TriggerValue,
		rule.Schedule, percentage, amount, rule.Enabled).Scan(&rule.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't update autoinvest rule", zap.Error(err))
		return nil, err
	}
	return rule, nil
}

func (r *Repository) Delete(ctx context.Context, ruleID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM autoinvest_rules WHERE id = $1", ruleID)
	if err != nil {
		zap.L().Error("can't delete autoinvest rule", zap.Error(err))
	}
	return err
}

func (r *Repository) GetByID(ctx context.Context, ruleID string) (*domain.AutoInvestRule, error) {
	query := `
        SELECT id, user_id, product_id, trigger_type, trigger_value, schedule, percentage, amount, enabled, last_executed, created_at
        FROM autoinvest_rules
        WHERE id = $1
    `
	rule, err := scanRule(r.db.QueryRow(ctx, query, ruleID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get autoinvest rule", zap.Error(err))
		return nil, err
	}
	return rule, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID int) ([]domain.AutoInvestRule, error) {
	return r.list(ctx, "WHERE user_id = $1", userID)
}

// ListEnabledByUserID returns enabled rules in creation order. The order is
// part of the engine contract: it decides who gets funded first when the
// balance runs out.
func (r *Repository) ListEnabledByUserID(ctx context.Context, userID int) ([]domain.AutoInvestRule, error) {
	return r.list(ctx, "WHERE user_id = $1 AND enabled = TRUE", userID)
}

func (r *Repository) list(ctx context.Context, where string, args ...any) ([]domain.AutoInvestRule, error) {
	query := `
        SELECT id, user_id, product_id, trigger_type, trigger_value, schedule, percentage, amount, enabled, last_executed, created_at
        FROM autoinvest_rules
        ` + where + `
        ORDER BY created_at, id
    `
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to fetch autoinvest rules", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var rules []domain.AutoInvestRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			zap.L().Error("failed to scan autoinvest rule row", zap.Error(err))
			return nil, err
		}
		rules = append(rules, *rule)
	}

	return rules, nil
}

func (r *Repository) SetEnabled(ctx context.Context, ruleID string, enabled bool) (*domain.AutoInvestRule, error) {
	query := `
		UPDATE autoinvest_rules
		SET enabled = $2
		WHERE id = $1
		RETURNING id, user_id, product_id, trigger_type, trigger_value, schedule, percentage, amount, enabled, last_executed, created_at
	`
	rule, err := scanRule(r.db.QueryRow(ctx, query, ruleID, enabled))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't set autoinvest rule enabled state", zap.Error(err))
		return nil, err
	}
	return rule, nil
}

func (r *Repository) UpdateLastExecuted(ctx context.Context, ruleID string, executedAt time.Time) error {
	_, err := r.db.Exec(ctx, "UPDATE autoinvest_rules SET last_executed = $2 WHERE id = $1", ruleID, executedAt)
	if err != nil {
		zap.L().Error("can't update rule last_executed", zap.Error(err))
	}
	return err
}
