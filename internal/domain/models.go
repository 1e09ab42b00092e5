package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	Phone        string    `db:"phone"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// SavingsWallet is owned by the wallet service: only the deposit, withdraw
// and invest primitives may mutate it. Invariant:
// Balance == TotalSaved - TotalWithdrawn - TotalInvested.
type SavingsWallet struct {
	ID             int             `db:"id"`
	UserID         int             `db:"user_id"`
	Balance        decimal.Decimal `db:"balance"`
	TotalSaved     decimal.Decimal `db:"total_saved"`
	TotalWithdrawn decimal.Decimal `db:"total_withdrawn"`
	TotalInvested  decimal.Decimal `db:"total_invested"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionInvestment TransactionType = "INVESTMENT"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
)

// LedgerTransaction is append-only: created once per balance-affecting
// operation, never updated or deleted.
type LedgerTransaction struct {
	ID          string            `db:"id"`
	UserID      int               `db:"user_id"`
	Type        TransactionType   `db:"type"`
	Amount      decimal.Decimal   `db:"amount"`
	Status      TransactionStatus `db:"status"`
	Description string            `db:"description"`
	RuleID      *string           `db:"rule_id"`
	CreatedAt   time.Time         `db:"created_at"`
}

type TriggerType string

const (
	TriggerThreshold TriggerType = "THRESHOLD"
	TriggerScheduled TriggerType = "SCHEDULED"
)

type AllocationKind string

const (
	AllocationPercentage AllocationKind = "PERCENTAGE"
	AllocationFixed      AllocationKind = "FIXED_AMOUNT"
)

// Allocation is a tagged variant: a rule allocates either a percentage of
// the available balance or a fixed amount, never both.
type Allocation struct {
	Kind  AllocationKind
	Value decimal.Decimal
}

func PercentageAllocation(pct decimal.Decimal) Allocation {
	return Allocation{Kind: AllocationPercentage, Value: pct}
}

func FixedAllocation(amount decimal.Decimal) Allocation {
	return Allocation{Kind: AllocationFixed, Value: amount}
}

var oneHundred = decimal.NewFromInt(100)

// AmountFor computes the candidate investment for the given available
// balance. Percentage allocations are floored; fixed allocations are
// clamped to the available balance so they can never overdraw it.
func (a Allocation) AmountFor(available decimal.Decimal) decimal.Decimal {
	switch a.Kind {
	case AllocationPercentage:
		return available.Mul(a.Value).Div(oneHundred).Floor()
	case AllocationFixed:
		if a.Value.GreaterThan(available) {
			return available
		}
		return a.Value
	}
	return decimal.Zero
}

type AutoInvestRule struct {
	ID           string           `db:"id"`
	UserID       int              `db:"user_id"`
	ProductID    string           `db:"product_id"`
	TriggerType  TriggerType      `db:"trigger_type"`
	TriggerValue *decimal.Decimal `db:"trigger_value"`
	Schedule     *string          `db:"schedule"`
	Allocation   Allocation
	Enabled      bool       `db:"enabled"`
	LastExecuted *time.Time `db:"last_executed"`
	CreatedAt    time.Time  `db:"created_at"`
}

type InvestmentProduct struct {
	ID            string          `json:"id"`
	MinInvestment decimal.Decimal `json:"min_investment"`
	IsActive      bool            `json:"is_active"`
}

type RuleExecutionStatus string

const (
	RuleExecutionSuccess RuleExecutionStatus = "SUCCESS"
	RuleExecutionSkipped RuleExecutionStatus = "SKIPPED"
	RuleExecutionFailed  RuleExecutionStatus = "FAILED"
)

type RuleExecutionResult struct {
	RuleID    string
	ProductID string
	Status    RuleExecutionStatus
	Amount    decimal.Decimal
	Reason    string
}

// ExecutionReport describes one engine run. The run completing does not mean
// every rule succeeded; per-rule outcomes are in Results.
type ExecutionReport struct {
	Results          []RuleExecutionResult
	TotalInvested    decimal.Decimal
	RemainingBalance decimal.Decimal
	ExecutedAt       time.Time
}

type OneTimeCodePurpose string

const (
	PurposeRegistration OneTimeCodePurpose = "REGISTRATION"
	PurposeLogin        OneTimeCodePurpose = "LOGIN"
	PurposeReset        OneTimeCodePurpose = "RESET"
)

type OneTimeCode struct {
	ID         int                `db:"id"`
	Identifier string             `db:"identifier"`
	Purpose    OneTimeCodePurpose `db:"purpose"`
	Code       string             `db:"code"`
	ExpiresAt  time.Time          `db:"expires_at"`
	Attempts   int                `db:"attempts"`
	Verified   bool               `db:"verified"`
	CreatedAt  time.Time          `db:"created_at"`
}
