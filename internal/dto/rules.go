package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleRequestDTO carries exactly one of Percentage or Amount; the service
// rejects payloads with both or neither.
type RuleRequestDTO struct {
	ProductID    string           `json:"product_id" validate:"required" example:"fund-money-market"`
	TriggerType  string           `json:"trigger_type" validate:"required" example:"THRESHOLD"`
	TriggerValue *decimal.Decimal `json:"trigger_value,omitempty" example:"5000"`
	Schedule     *string          `json:"schedule,omitempty" example:"0 9 * * MON"`
	Percentage   *decimal.Decimal `json:"percentage,omitempty" example:"40"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Enabled      *bool            `json:"enabled,omitempty"`
}

type RuleResponseDTO struct {
	ID           string           `json:"id" example:"9b7e5cb8-257e-4f13-8b82-4f5ed4bd2f06"`
	ProductID    string           `json:"product_id" example:"fund-money-market"`
	TriggerType  string           `json:"trigger_type" example:"THRESHOLD"`
	TriggerValue *decimal.Decimal `json:"trigger_value,omitempty" example:"5000"`
	Schedule     *string          `json:"schedule,omitempty" example:"0 9 * * MON"`
	Percentage   *decimal.Decimal `json:"percentage,omitempty" example:"40"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Enabled      bool             `json:"enabled" example:"true"`
	LastExecuted *time.Time       `json:"last_executed,omitempty"`
	CreatedAt    time.Time        `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}

type ExecuteRequestDTO struct {
	RuleIDs []string `json:"rule_ids,omitempty"`
}

type RuleResultDTO struct {
	RuleID    string          `json:"rule_id" example:"9b7e5cb8-257e-4f13-8b82-4f5ed4bd2f06"`
	ProductID string          `json:"product_id" example:"fund-money-market"`
	Status    string          `json:"status" example:"SUCCESS"`
	Amount    decimal.Decimal `json:"amount" example:"4000"`
	Reason    string          `json:"reason,omitempty"`
}

type ExecutionReportDTO struct {
	Results          []RuleResultDTO `json:"results"`
	TotalInvested    decimal.Decimal `json:"total_invested" example:"7600"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" example:"2400"`
	ExecutedAt       time.Time       `json:"executed_at" example:"2020-12-09T16:09:57+03:00"`
}

type ExecuteBatchRequestDTO struct {
	UserIDs []int `json:"user_ids" validate:"required"`
}

type ExecuteBatchResponseDTO struct {
	Accepted []int `json:"accepted"`
	Skipped  []int `json:"skipped,omitempty"`
}
