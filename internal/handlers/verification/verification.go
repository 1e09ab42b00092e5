package verification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/dto"
	"github.com/GlebRadaev/autosave/internal/service/lockout"
	"github.com/GlebRadaev/autosave/internal/service/otpservice"
	"github.com/GlebRadaev/autosave/pkg/auth"
	"github.com/GlebRadaev/autosave/pkg/utils"
)

type CodeService interface {
	Generate(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) (*domain.OneTimeCode, error)
	Verify(ctx context.Context, identifier, code string, purpose domain.OneTimeCodePurpose) (bool, error)
}

type LockoutGuard interface {
	RecordFailedAttempt(ctx context.Context, userID int) (*lockout.Status, error)
	IsLocked(ctx context.Context, userID int) (*lockout.Status, error)
	ClearFailedAttempts(ctx context.Context, userID int) error
}

type VerificationHandler struct {
	codeService CodeService
	guard       LockoutGuard
}

func New(codeService CodeService, guard LockoutGuard) *VerificationHandler {
	return &VerificationHandler{
		codeService: codeService,
		guard:       guard,
	}
}

func parsePurpose(raw string) (domain.OneTimeCodePurpose, bool) {
	purpose := domain.OneTimeCodePurpose(raw)
	switch purpose {
	case domain.PurposeRegistration, domain.PurposeLogin, domain.PurposeReset:
		return purpose, true
	}
	return "", false
}

// GenerateCode godoc
//
//	@Summary		Generate a one-time code
//	@Description	Issue a short-lived verification code for the identifier, superseding any active code for the same purpose. The code is delivered out of band.
//	@Tags			Verification
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.GenerateCodeRequestDTO	true	"Code request payload"
//	@Success		200		{object}	dto.GenerateCodeResponseDTO	"Code issued"
//	@Failure		400		{object}	utils.Response				"Invalid request body"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/verification/codes [post]
func (h *VerificationHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateCodeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identifier == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	purpose, ok := parsePurpose(req.Purpose)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid purpose")
		return
	}

	code, err := h.codeService.Generate(r.Context(), req.Identifier, purpose)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.GenerateCodeResponseDTO{
		Message:   "Verification code sent",
		ExpiresAt: code.ExpiresAt,
	})
}

// VerifyCode godoc
//
//	@Summary		Verify a one-time code
//	@Description	Check a submitted code. A missing or expired code verifies false; exhausting the attempt limit requires requesting a new code.
//	@Tags			Verification
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.VerifyCodeRequestDTO	true	"Verification payload"
//	@Success		200		{object}	dto.VerifyCodeResponseDTO	"Verification outcome"
//	@Failure		400		{object}	utils.Response				"Invalid request body"
//	@Failure		429		{object}	utils.Response				"Attempts exceeded"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/verification/codes/verify [post]
func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyCodeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identifier == "" || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	purpose, ok := parsePurpose(req.Purpose)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid purpose")
		return
	}

	verified, err := h.codeService.Verify(r.Context(), req.Identifier, req.Code, purpose)
	if err != nil {
		switch {
		case errors.Is(err, otpservice.ErrAttemptsExceeded):
			utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.VerifyCodeResponseDTO{Verified: verified})
}

// RecordFailedAttempt godoc
//
//	@Summary		Record a failed PIN attempt
//	@Description	Append a failed attempt to the sliding window; crossing the threshold locks the user out temporarily.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.LockStatusResponseDTO	"Attempts remaining and lockout state"
//	@Failure		401	{object}	utils.Response				"User not authorized"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/user/pin/attempts [post]
func (h *VerificationHandler) RecordFailedAttempt(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	status, err := h.guard.RecordFailedAttempt(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.LockStatusResponseDTO{
		Locked:            status.Locked,
		AttemptsRemaining: status.AttemptsRemaining,
		LockedUntil:       status.LockedUntil,
	})
}

// IsLocked godoc
//
//	@Summary		Get the lockout state
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.LockStatusResponseDTO	"Lockout state"
//	@Failure		401	{object}	utils.Response				"User not authorized"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/user/pin/lock [get]
func (h *VerificationHandler) IsLocked(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	status, err := h.guard.IsLocked(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.LockStatusResponseDTO{
		Locked:            status.Locked,
		AttemptsRemaining: status.AttemptsRemaining,
		LockedUntil:       status.LockedUntil,
	})
}

// ClearFailedAttempts godoc
//
//	@Summary		Clear failed PIN attempts
//	@Description	Explicit reset after a successful authentication.
//	@Tags			Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Success		204	{string}	string	"Attempts cleared"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/pin/attempts/clear [post]
func (h *VerificationHandler) ClearFailedAttempts(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	if err := h.guard.ClearFailedAttempts(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}
