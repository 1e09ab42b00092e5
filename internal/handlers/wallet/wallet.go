package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/dto"
	transactionrepo "github.com/GlebRadaev/autosave/internal/repo/transaction-repo"
	"github.com/GlebRadaev/autosave/internal/service/walletservice"
	"github.com/GlebRadaev/autosave/pkg/auth"
	"github.com/GlebRadaev/autosave/pkg/utils"
	"github.com/GlebRadaev/autosave/pkg/validate"
)

type Service interface {
	GetWallet(ctx context.Context, userID int) (*domain.SavingsWallet, error)
	Deposit(ctx context.Context, userID int, amount decimal.Decimal, description string) (*domain.SavingsWallet, error)
	Withdraw(ctx context.Context, userID int, amount decimal.Decimal, reason string) (*domain.SavingsWallet, error)
	ListTransactions(ctx context.Context, userID int, filter transactionrepo.ListFilter) ([]domain.LedgerTransaction, int, error)
}

type WalletHandler struct {
	walletService Service
}

func New(walletService Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

func walletResponse(wallet *domain.SavingsWallet) dto.WalletResponseDTO {
	return dto.WalletResponseDTO{
		Balance:        wallet.Balance,
		TotalSaved:     wallet.TotalSaved,
		TotalWithdrawn: wallet.TotalWithdrawn,
		TotalInvested:  wallet.TotalInvested,
		UpdatedAt:      wallet.UpdatedAt,
	}
}

// GetWallet godoc
//
//	@Summary		Get the savings wallet
//	@Description	Retrieve the current wallet balance and lifetime totals for the authenticated user. The wallet is created on first access.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.WalletResponseDTO	"Wallet state"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/wallet [get]
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	wallet, err := h.walletService.GetWallet(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, walletResponse(wallet))
}

// Deposit godoc
//
//	@Summary		Deposit into the savings wallet
//	@Description	Credit the wallet and append a DEPOSIT ledger transaction.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit request payload"
//	@Success		200		{object}	dto.BalanceResponseDTO	"New balance"
//	@Failure		400		{object}	utils.Response			"Invalid amount"
//	@Failure		401		{object}	utils.Response			"User not authorized"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/user/wallet/deposit [post]
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wallet, err := h.walletService.Deposit(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Balance: wallet.Balance})
}

// Withdraw godoc
//
//	@Summary		Withdraw from the savings wallet
//	@Description	Debit the wallet and append a WITHDRAWAL ledger transaction.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdrawal request payload"
//	@Success		200		{object}	dto.BalanceResponseDTO	"New balance"
//	@Failure		400		{object}	utils.Response			"Invalid amount"
//	@Failure		401		{object}	utils.Response			"User not authorized"
//	@Failure		402		{object}	utils.Response			"Insufficient balance"
//	@Failure		404		{object}	utils.Response			"Wallet not found"
//	@Failure		422		{object}	utils.Response			"Invalid bank account number"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/user/wallet/withdraw [post]
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BankAccountID != "" && !validate.IsLuna(req.BankAccountID) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid bank account number")
		return
	}

	wallet, err := h.walletService.Withdraw(r.Context(), userID, req.Amount, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, walletservice.ErrWalletNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, walletservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Balance: wallet.Balance})
}

// GetTransactions godoc
//
//	@Summary		Get wallet transaction history
//	@Description	Page through the append-only ledger, optionally filtered by transaction type.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Param			page	query		int		false	"Page number (1-based)"
//	@Param			limit	query		int		false	"Page size"
//	@Param			type	query		string	false	"Transaction type filter"	Enums(DEPOSIT, WITHDRAWAL, INVESTMENT)
//	@Success		200		{object}	dto.TransactionListResponseDTO	"Transaction history"
//	@Failure		400		{object}	utils.Response					"Invalid filter"
//	@Failure		401		{object}	utils.Response					"User not authorized"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/user/wallet/transactions [get]
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	filter := transactionrepo.ListFilter{Page: 1, Limit: 20}
	if page := r.URL.Query().Get("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid page")
			return
		}
		filter.Page = p
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l < 1 || l > 100 {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = l
	}
	if typ := r.URL.Query().Get("type"); typ != "" {
		txnType := domain.TransactionType(typ)
		switch txnType {
		case domain.TransactionDeposit, domain.TransactionWithdrawal, domain.TransactionInvestment:
			filter.Type = &txnType
		default:
			utils.RespondWithError(w, http.StatusBadRequest, "invalid transaction type")
			return
		}
	}

	txns, total, err := h.walletService.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	response := dto.TransactionListResponseDTO{
		Transactions: make([]dto.TransactionResponseDTO, len(txns)),
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}
	for i, txn := range txns {
		response.Transactions[i] = dto.TransactionResponseDTO{
			ID:          txn.ID,
			Type:        string(txn.Type),
			Amount:      txn.Amount,
			Status:      string(txn.Status),
			Description: txn.Description,
			RuleID:      txn.RuleID,
			CreatedAt:   txn.CreatedAt,
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
