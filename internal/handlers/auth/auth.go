package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/dto"
	"github.com/GlebRadaev/autosave/internal/service/authservice"
	"github.com/GlebRadaev/autosave/internal/service/lockout"
	"github.com/GlebRadaev/autosave/pkg/utils"
)

type Service interface {
	Register(ctx context.Context, login, phone, password string) (*domain.User, error)
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	GenerateToken(userID int) (string, error)
}

type LockoutGuard interface {
	RecordFailedAttempt(ctx context.Context, userID int) (*lockout.Status, error)
	IsLocked(ctx context.Context, userID int) (*lockout.Status, error)
	ClearFailedAttempts(ctx context.Context, userID int) error
}

type AuthHandler struct {
	authService Service
	guard       LockoutGuard
}

func New(authService Service, guard LockoutGuard) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		guard:       guard,
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a new user account. The phone number must have completed one-time-code verification first.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		200		{object}	dto.RegisterResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		403		{object}	utils.Response	"Phone not verified"
//	@Failure		409		{object}	utils.Response	"User already exists"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.Register(r.Context(), req.Login, req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrPhoneNotVerified):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, authservice.ErrUserExists):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.RegisterResponseDTO{
		Message: "User successfully registered",
	})
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with a user account and get a JWT token. Repeated failures trigger a temporary lockout.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.LoginResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		423		{object}	utils.Response	"Account temporarily locked"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	known, err := h.authService.FindByLogin(r.Context(), req.Login)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if known != nil {
		status, err := h.guard.IsLocked(r.Context(), known.ID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if status.Locked {
			utils.RespondWithError(w, http.StatusLocked, "Account temporarily locked, try again later")
			return
		}
	}

	user, err := h.authService.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		if known != nil {
			if _, recErr := h.guard.RecordFailedAttempt(r.Context(), known.ID); recErr != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
		}
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.guard.ClearFailedAttempts(r.Context(), user.ID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginResponseDTO{
		Message: "User successfully authenticated",
	})
}
