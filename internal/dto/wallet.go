package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletResponseDTO struct {
	Balance        decimal.Decimal `json:"balance" example:"2400"`
	TotalSaved     decimal.Decimal `json:"total_saved" example:"10000"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn" example:"0"`
	TotalInvested  decimal.Decimal `json:"total_invested" example:"7600"`
	UpdatedAt      time.Time       `json:"updated_at" example:"2020-12-09T16:09:57+03:00"`
}

type DepositRequestDTO struct {
	Amount      decimal.Decimal `json:"amount" example:"500"`
	Description string          `json:"description,omitempty" example:"Round-up from card payment"`
}

type WithdrawRequestDTO struct {
	Amount        decimal.Decimal `json:"amount" example:"500"`
	BankAccountID string          `json:"bank_account_id,omitempty" example:"2377225624"`
	Reason        string          `json:"reason,omitempty" example:"Emergency expense"`
}

type BalanceResponseDTO struct {
	Balance decimal.Decimal `json:"balance" example:"2400"`
}

type TransactionResponseDTO struct {
	ID          string          `json:"id" example:"7d5c2c3e-7d08-4f2c-9a83-54cafe17f507"`
	Type        string          `json:"type" example:"DEPOSIT"`
	Amount      decimal.Decimal `json:"amount" example:"500"`
	Status      string          `json:"status" example:"COMPLETED"`
	Description string          `json:"description" example:"Round-up from card payment"`
	RuleID      *string         `json:"rule_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}

type TransactionListResponseDTO struct {
	Transactions []TransactionResponseDTO `json:"transactions"`
	Total        int                      `json:"total" example:"42"`
	Page         int                      `json:"page" example:"1"`
	Limit        int                      `json:"limit" example:"20"`
}
