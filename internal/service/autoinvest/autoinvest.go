package autoinvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/service/walletservice"
	"github.com/GlebRadaev/autosave/pkg/metrics"
)

type RuleRepo interface {
	Create(ctx context.Context, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error)
	Update(ctx context.Context, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error)
	Delete(ctx context.Context, ruleID string) error
	GetByID(ctx context.Context, ruleID string) (*domain.AutoInvestRule, error)
	ListByUserID(ctx context.Context, userID int) ([]domain.AutoInvestRule, error)
	ListEnabledByUserID(ctx context.Context, userID int) ([]domain.AutoInvestRule, error)
	SetEnabled(ctx context.Context, ruleID string, enabled bool) (*domain.AutoInvestRule, error)
	UpdateLastExecuted(ctx context.Context, ruleID string, executedAt time.Time) error
}

type WalletService interface {
	GetWallet(ctx context.Context, userID int) (*domain.SavingsWallet, error)
	Invest(ctx context.Context, userID int, amount decimal.Decimal, productID string, ruleID *string) (*domain.SavingsWallet, error)
}

type ProductClient interface {
	GetProduct(ctx context.Context, productID string) (*domain.InvestmentProduct, error)
}

var (
	ErrRuleNotFound      = errors.New("rule not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrUnauthorized      = errors.New("rule belongs to another user")
	ErrNoActiveRules     = errors.New("no active rules to execute")
	ErrInvalidAllocation = errors.New("rule must have either a percentage in (0,100] or a positive fixed amount")
	ErrInvalidTrigger    = errors.New("threshold rules need a trigger value, scheduled rules need a schedule")
)

type Service struct {
	ruleRepo RuleRepo
	wallet   WalletService
	products ProductClient
}

func New(ruleRepo RuleRepo, wallet WalletService, products ProductClient) *Service {
	return &Service{
		ruleRepo: ruleRepo,
		wallet:   wallet,
		products: products,
	}
}

func validateRule(rule *domain.AutoInvestRule) error {
	switch rule.Allocation.Kind {
	case domain.AllocationPercentage:
		if rule.Allocation.Value.Sign() <= 0 || rule.Allocation.Value.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidAllocation
		}
	case domain.AllocationFixed:
		if rule.Allocation.Value.Sign() <= 0 {
			return ErrInvalidAllocation
		}
	default:
		return ErrInvalidAllocation
	}

	switch rule.TriggerType {
	case domain.TriggerThreshold:
		if rule.TriggerValue == nil || rule.TriggerValue.Sign() < 0 {
			return ErrInvalidTrigger
		}
	case domain.TriggerScheduled:
		if rule.Schedule == nil || *rule.Schedule == "" {
			return ErrInvalidTrigger
		}
	default:
		return ErrInvalidTrigger
	}

	return nil
}

func (s *Service) checkProduct(ctx context.Context, productID string) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return nil
}

func (s *Service) CreateRule(ctx context.Context, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if err := s.checkProduct(ctx, rule.ProductID); err != nil {
		return nil, err
	}

	rule.ID = uuid.NewString()
	rule.CreatedAt = time.Now()
	rule.LastExecuted = nil

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		zap.L().Error("failed to create rule", zap.Error(err))
		return nil, err
	}
	return created, nil
}

// loadOwned fetches a rule and enforces ownership. A rule owned by another
// user is reported as Unauthorized, never silently ignored.
func (s *Service) loadOwned(ctx context.Context, userID int, ruleID string) (*domain.AutoInvestRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	if rule.UserID != userID {
		return nil, ErrUnauthorized
	}
	return rule, nil
}

func (s *Service) UpdateRule(ctx context.Context, userID int, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error) {
	existing, err := s.loadOwned(ctx, userID, rule.ID)
	if err != nil {
		return nil, err
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if rule.ProductID != existing.ProductID {
		if err := s.checkProduct(ctx, rule.ProductID); err != nil {
			return nil, err
		}
	}

	rule.UserID = userID
	updated, err := s.ruleRepo.Update(ctx, rule)
	if err != nil {
		zap.L().Error("failed to update rule", zap.Error(err))
		return nil, err
	}
	if updated == nil {
		return nil, ErrRuleNotFound
	}
	return updated, nil
}

func (s *Service) DeleteRule(ctx context.Context, userID int, ruleID string) error {
	if _, err := s.loadOwned(ctx, userID, ruleID); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, ruleID)
}

func (s *Service) SetRuleEnabled(ctx context.Context, userID int, ruleID string, enabled bool) (*domain.AutoInvestRule, error) {
	if _, err := s.loadOwned(ctx, userID, ruleID); err != nil {
		return nil, err
	}
	rule, err := s.ruleRepo.SetEnabled(ctx, ruleID, enabled)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

func (s *Service) ListRules(ctx context.Context, userID int) ([]domain.AutoInvestRule, error) {
	rules, err := s.ruleRepo.ListByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch rules", zap.Error(err))
		return nil, err
	}
	return rules, nil
}

// Execute evaluates the user's enabled rules against a snapshot of the wallet
// balance, in creation order, decrementing an in-memory available pool as
// each rule consumes funds. Each rule's fund-move is its own transaction: a
// failing rule is reported FAILED and the loop continues.
func (s *Service) Execute(ctx context.Context, userID int, ruleIDs []string) (*domain.ExecutionReport, error) {
	wallet, err := s.wallet.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance.Sign() <= 0 {
		return nil, walletservice.ErrInsufficientBalance
	}

	rules, err := s.ruleRepo.ListEnabledByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	rules = filterRules(rules, ruleIDs)
	if len(rules) == 0 {
		return nil, ErrNoActiveRules
	}

	report := &domain.ExecutionReport{
		TotalInvested: decimal.Zero,
		ExecutedAt:    time.Now(),
	}
	available := wallet.Balance

	for i := range rules {
		result := s.executeRule(ctx, userID, &rules[i], available)
		if result.Status == domain.RuleExecutionSuccess {
			available = available.Sub(result.Amount)
			report.TotalInvested = report.TotalInvested.Add(result.Amount)
		}
		metrics.RuleExecutions.WithLabelValues(string(result.Status)).Inc()
		report.Results = append(report.Results, result)
	}

	report.RemainingBalance = available
	return report, nil
}

func filterRules(rules []domain.AutoInvestRule, ruleIDs []string) []domain.AutoInvestRule {
	if len(ruleIDs) == 0 {
		return rules
	}
	wanted := make(map[string]struct{}, len(ruleIDs))
	for _, id := range ruleIDs {
		wanted[id] = struct{}{}
	}
	filtered := rules[:0]
	for _, rule := range rules {
		if _, ok := wanted[rule.ID]; ok {
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

func (s *Service) executeRule(ctx context.Context, userID int, rule *domain.AutoInvestRule, available decimal.Decimal) domain.RuleExecutionResult {
	result := domain.RuleExecutionResult{
		RuleID:    rule.ID,
		ProductID: rule.ProductID,
	}

	// THRESHOLD rules gate on the current available balance, not the balance
	// the run started with. SCHEDULED rules arrive pre-filtered by the
	// external scheduler and are always considered triggered.
	if rule.TriggerType == domain.TriggerThreshold && available.LessThan(*rule.TriggerValue) {
		result.Status = domain.RuleExecutionSkipped
		result.Reason = fmt.Sprintf("available balance %s is below trigger threshold %s", available, rule.TriggerValue)
		return result
	}

	product, err := s.products.GetProduct(ctx, rule.ProductID)
	if err != nil {
		result.Status = domain.RuleExecutionFailed
		result.Reason = err.Error()
		return result
	}
	if product == nil {
		result.Status = domain.RuleExecutionFailed
		result.Reason = ErrProductNotFound.Error()
		return result
	}
	if !product.IsActive {
		result.Status = domain.RuleExecutionSkipped
		result.Reason = fmt.Sprintf("product %s is not active", rule.ProductID)
		return result
	}

	amount := rule.Allocation.AmountFor(available)
	if amount.LessThan(product.MinInvestment) {
		result.Status = domain.RuleExecutionSkipped
		result.Reason = fmt.Sprintf("computed amount %s is below product minimum %s", amount, product.MinInvestment)
		return result
	}

	if _, err := s.wallet.Invest(ctx, userID, amount, rule.ProductID, &rule.ID); err != nil {
		result.Status = domain.RuleExecutionFailed
		result.Reason = err.Error()
		zap.L().Error("rule investment failed",
			zap.String("rule_id", rule.ID), zap.Int("user_id", userID), zap.Error(err))
		return result
	}

	// The money already moved; last_executed is best-effort bookkeeping.
	if err := s.ruleRepo.UpdateLastExecuted(ctx, rule.ID, time.Now()); err != nil {
		zap.L().Warn("failed to update rule last_executed", zap.String("rule_id", rule.ID), zap.Error(err))
	}

	result.Status = domain.RuleExecutionSuccess
	result.Amount = amount
	return result
}
