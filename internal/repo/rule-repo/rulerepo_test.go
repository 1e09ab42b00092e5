package rulerepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var ruleColumns = []string{"id", "user_id", "product_id", "trigger_type", "trigger_value", "schedule", "percentage", "amount", "enabled", "last_executed", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	threshold := decimal.NewFromInt(1000)

	rule := &domain.AutoInvestRule{
		ID:           "rule-1",
		UserID:       1,
		ProductID:    "prod-1",
		TriggerType:  domain.TriggerThreshold,
		TriggerValue: &threshold,
		Allocation:   domain.PercentageAllocation(decimal.NewFromInt(40)),
		Enabled:      true,
		CreatedAt:    now,
	}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Percentage rule persists the percentage column",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO autoinvest_rules`)).
					WithArgs("rule-1", 1, "prod-1", domain.TriggerThreshold, &threshold,
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true, now).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("rule-1"))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO autoinvest_rules`)).
					WithArgs("rule-1", 1, "prod-1", domain.TriggerThreshold, &threshold,
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true, now).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), rule)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "rule-1", result.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	pct := decimal.NewFromInt(40)

	tests := []struct {
		name      string
		ruleID    string
		mockSetup func()
		expectErr bool
		check     func(t *testing.T, rule *domain.AutoInvestRule)
	}{
		{
			name:   "Percentage column maps to a percentage allocation",
			ruleID: "rule-1",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM autoinvest_rules`)).
					WithArgs("rule-1").
					WillReturnRows(pgxmock.NewRows(ruleColumns).
						AddRow("rule-1", 1, "prod-1", domain.TriggerScheduled, nil, nil, &pct, nil, true, nil, now))
			},
			check: func(t *testing.T, rule *domain.AutoInvestRule) {
				assert.Equal(t, domain.AllocationPercentage, rule.Allocation.Kind)
				assert.True(t, pct.Equal(rule.Allocation.Value))
			},
		},
		{
			name:   "Amount column maps to a fixed allocation",
			ruleID: "rule-2",
			mockSetup: func() {
				amount := decimal.NewFromInt(250)
				mock.ExpectQuery(regexp.QuoteMeta(`FROM autoinvest_rules`)).
					WithArgs("rule-2").
					WillReturnRows(pgxmock.NewRows(ruleColumns).
						AddRow("rule-2", 1, "prod-1", domain.TriggerScheduled, nil, nil, nil, &amount, true, nil, now))
			},
			check: func(t *testing.T, rule *domain.AutoInvestRule) {
				assert.Equal(t, domain.AllocationFixed, rule.Allocation.Kind)
				assert.True(t, decimal.NewFromInt(250).Equal(rule.Allocation.Value))
			},
		},
		{
			name:   "Missing rule returns nil",
			ruleID: "ghost",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM autoinvest_rules`)).
					WithArgs("ghost").
					WillReturnError(pgx.ErrNoRows)
			},
			check: func(t *testing.T, rule *domain.AutoInvestRule) {
				assert.Nil(t, rule)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			rule, err := repo.GetByID(context.Background(), tt.ruleID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				tt.check(t, rule)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_ListEnabledByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	pct := decimal.NewFromInt(40)
	amount := decimal.NewFromInt(500)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND enabled = TRUE`)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(ruleColumns).
			AddRow("rule-1", 1, "prod-1", domain.TriggerScheduled, nil, nil, &pct, nil, true, nil, now).
			AddRow("rule-2", 1, "prod-2", domain.TriggerScheduled, nil, nil, nil, &amount, true, nil, now))

	rules, err := repo.ListEnabledByUserID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, rules, 2)
	assert.Equal(t, "rule-1", rules[0].ID)
	assert.Equal(t, domain.AllocationFixed, rules[1].Allocation.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetEnabled(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	pct := decimal.NewFromInt(40)

	tests := []struct {
		name      string
		ruleID    string
		enabled   bool
		mockSetup func()
		expectNil bool
	}{
		{
			name:    "Disable existing rule",
			ruleID:  "rule-1",
			enabled: false,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SET enabled = $2`)).
					WithArgs("rule-1", false).
					WillReturnRows(pgxmock.NewRows(ruleColumns).
						AddRow("rule-1", 1, "prod-1", domain.TriggerScheduled, nil, nil, &pct, nil, false, nil, now))
			},
		},
		{
			name:    "Missing rule returns nil",
			ruleID:  "ghost",
			enabled: true,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SET enabled = $2`)).
					WithArgs("ghost", true).
					WillReturnError(pgx.ErrNoRows)
			},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			rule, err := repo.SetEnabled(context.Background(), tt.ruleID, tt.enabled)
			assert.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, rule)
			} else {
				assert.Equal(t, tt.enabled, rule.Enabled)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_UpdateLastExecuted(t *testing.T) {
	repo, mock := NewMock(t)
	executedAt := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE autoinvest_rules SET last_executed = $2 WHERE id = $1`)).
		WithArgs("rule-1", executedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateLastExecuted(context.Background(), "rule-1", executedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM autoinvest_rules WHERE id = $1`)).
		WithArgs("rule-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "rule-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
