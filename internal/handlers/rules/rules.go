package rules

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/autosave/internal/dispatch"
	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/dto"
	"github.com/GlebRadaev/autosave/internal/service/autoinvest"
	"github.com/GlebRadaev/autosave/internal/service/walletservice"
	"github.com/GlebRadaev/autosave/pkg/auth"
	"github.com/GlebRadaev/autosave/pkg/utils"
)

type Service interface {
	CreateRule(ctx context.Context, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error)
	UpdateRule(ctx context.Context, userID int, rule *domain.AutoInvestRule) (*domain.AutoInvestRule, error)
	DeleteRule(ctx context.Context, userID int, ruleID string) error
	SetRuleEnabled(ctx context.Context, userID int, ruleID string, enabled bool) (*domain.AutoInvestRule, error)
	ListRules(ctx context.Context, userID int) ([]domain.AutoInvestRule, error)
	Execute(ctx context.Context, userID int, ruleIDs []string) (*domain.ExecutionReport, error)
}

type Dispatcher interface {
	ExecuteBatch(ctx context.Context, userIDs []int) (*dispatch.BatchReport, error)
}

type RulesHandler struct {
	ruleService Service
	dispatcher  Dispatcher
}

func New(ruleService Service, dispatcher Dispatcher) *RulesHandler {
	return &RulesHandler{
		ruleService: ruleService,
		dispatcher:  dispatcher,
	}
}

func ruleFromRequest(req *dto.RuleRequestDTO, userID int) (*domain.AutoInvestRule, error) {
	if (req.Percentage == nil) == (req.Amount == nil) {
		return nil, autoinvest.ErrInvalidAllocation
	}

	rule := &domain.AutoInvestRule{
		UserID:       userID,
		ProductID:    req.ProductID,
		TriggerType:  domain.TriggerType(req.TriggerType),
		TriggerValue: req.TriggerValue,
		Schedule:     req.Schedule,
		Enabled:      true,
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if req.Percentage != nil {
		rule.Allocation = domain.PercentageAllocation(*req.Percentage)
	} else {
		rule.Allocation = domain.FixedAllocation(*req.Amount)
	}
	return rule, nil
}

func ruleResponse(rule *domain.AutoInvestRule) dto.RuleResponseDTO {
	resp := dto.RuleResponseDTO{
		ID:           rule.ID,
		ProductID:    rule.ProductID,
		TriggerType:  string(rule.TriggerType),
		TriggerValue: rule.TriggerValue,
		Schedule:     rule.Schedule,
		Enabled:      rule.Enabled,
		LastExecuted: rule.LastExecuted,
		CreatedAt:    rule.CreatedAt,
	}
	value := rule.Allocation.Value
	switch rule.Allocation.Kind {
	case domain.AllocationPercentage:
		resp.Percentage = &value
	case domain.AllocationFixed:
		resp.Amount = &value
	}
	return resp
}

func respondRuleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, autoinvest.ErrInvalidAllocation), errors.Is(err, autoinvest.ErrInvalidTrigger):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, autoinvest.ErrRuleNotFound), errors.Is(err, autoinvest.ErrProductNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, autoinvest.ErrUnauthorized):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// CreateRule godoc
//
//	@Summary		Create an auto-invest rule
//	@Description	Create a rule that moves wallet funds into an investment product on a threshold or schedule trigger. Exactly one of percentage or amount must be set.
//	@Tags			Rules
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RuleRequestDTO	true	"Rule payload"
//	@Success		201		{object}	dto.RuleResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid rule"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Product not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/autoinvest/rules [post]
func (h *RulesHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.RuleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := ruleFromRequest(&req, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.ruleService.CreateRule(r.Context(), rule)
	if err != nil {
		respondRuleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, ruleResponse(created))
}

// UpdateRule godoc
//
//	@Summary		Update an auto-invest rule
//	@Tags			Rules
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Rule ID"
//	@Param			request	body		dto.RuleRequestDTO	true	"Rule payload"
//	@Success		200		{object}	dto.RuleResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid rule"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Rule owned by another user"
//	@Failure		404		{object}	utils.Response	"Rule not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/autoinvest/rules/{id} [put]
func (h *RulesHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	ruleID := chi.URLParam(r, "id")

	var req dto.RuleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := ruleFromRequest(&req, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	rule.ID = ruleID

	updated, err := h.ruleService.UpdateRule(r.Context(), userID, rule)
	if err != nil {
		respondRuleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ruleResponse(updated))
}

// DeleteRule godoc
//
//	@Summary		Delete an auto-invest rule
//	@Tags			Rules
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Rule ID"
//	@Success		204	{string}	string	"Rule deleted"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Rule owned by another user"
//	@Failure		404	{object}	utils.Response	"Rule not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/autoinvest/rules/{id} [delete]
func (h *RulesHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	ruleID := chi.URLParam(r, "id")

	if err := h.ruleService.DeleteRule(r.Context(), userID, ruleID); err != nil {
		respondRuleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}

// EnableRule godoc
//
//	@Summary		Enable an auto-invest rule
//	@Tags			Rules
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Rule ID"
//	@Success		200	{object}	dto.RuleResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Rule owned by another user"
//	@Failure		404	{object}	utils.Response	"Rule not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/autoinvest/rules/{id}/enable [put]
func (h *RulesHandler) EnableRule(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// DisableRule godoc
//
//	@Summary		Disable an auto-invest rule
//	@Tags			Rules
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Rule ID"
//	@Success		200	{object}	dto.RuleResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Rule owned by another user"
//	@Failure		404	{object}	utils.Response	"Rule not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/autoinvest/rules/{id}/disable [put]
func (h *RulesHandler) DisableRule(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *RulesHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	ruleID := chi.URLParam(r, "id")

	rule, err := h.ruleService.SetRuleEnabled(r.Context(), userID, ruleID, enabled)
	if err != nil {
		respondRuleError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ruleResponse(rule))
}

// GetRules godoc
//
//	@Summary		List auto-invest rules
//	@Tags			Rules
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.RuleResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/autoinvest/rules [get]
func (h *RulesHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	rules, err := h.ruleService.ListRules(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch rules")
		return
	}

	response := make([]dto.RuleResponseDTO, len(rules))
	for i := range rules {
		response[i] = ruleResponse(&rules[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Execute godoc
//
//	@Summary		Execute auto-invest rules
//	@Description	Evaluate the user's enabled rules against the current wallet balance and move funds for each triggered rule. Per-rule outcomes are reported individually.
//	@Tags			Rules
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ExecuteRequestDTO	false	"Optional rule filter"
//	@Success		200		{object}	dto.ExecutionReportDTO	"Execution report"
//	@Failure		401		{object}	utils.Response			"User not authorized"
//	@Failure		402		{object}	utils.Response			"Wallet balance is empty"
//	@Failure		404		{object}	utils.Response			"No active rules"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/user/autoinvest/execute [post]
func (h *RulesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.ExecuteRequestDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	report, err := h.ruleService.Execute(r.Context(), userID, req.RuleIDs)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, autoinvest.ErrNoActiveRules):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	response := dto.ExecutionReportDTO{
		Results:          make([]dto.RuleResultDTO, len(report.Results)),
		TotalInvested:    report.TotalInvested,
		RemainingBalance: report.RemainingBalance,
		ExecutedAt:       report.ExecutedAt,
	}
	for i, result := range report.Results {
		amount := result.Amount
		if result.Status != domain.RuleExecutionSuccess {
			amount = decimal.Zero
		}
		response.Results[i] = dto.RuleResultDTO{
			RuleID:    result.RuleID,
			ProductID: result.ProductID,
			Status:    string(result.Status),
			Amount:    amount,
			Reason:    result.Reason,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// ExecuteBatch godoc
//
//	@Summary		Execute auto-invest rules for a batch of users
//	@Description	Entry point for the external scheduler: fans rule execution out across the given users. Users with a run already in flight are skipped.
//	@Tags			Rules
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ExecuteBatchRequestDTO	true	"User batch"
//	@Success		202		{object}	dto.ExecuteBatchResponseDTO	"Dispatch summary"
//	@Failure		400		{object}	utils.Response				"Invalid request body"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/autoinvest/execute-batch [post]
func (h *RulesHandler) ExecuteBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.ExecuteBatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.UserIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.dispatcher.ExecuteBatch(r.Context(), req.UserIDs)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, dto.ExecuteBatchResponseDTO{
		Accepted: report.Accepted,
		Skipped:  report.Skipped,
	})
}
